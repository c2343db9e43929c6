package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"echobreak_backend/internal/model"
	"echobreak_backend/internal/util"

	"github.com/google/uuid"
)

type UserService struct {
	Users   UserStore
	Storage *StorageService
}

func NewUserService(users UserStore, storage *StorageService) *UserService {
	return &UserService{Users: users, Storage: storage}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	return s.Users.FindByID(userID)
}

// UpdateDeclaredLean updates the user's self-declared political lean,
// clamped to the -3..+3 rating scale.
func (s *UserService) UpdateDeclaredLean(userID uint, lean float64) error {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		return err
	}
	user.PoliticalLean = util.Clamp(lean, -3, 3)
	return s.Users.Update(user)
}

// NextStreak computes the streak value a new submission at now produces.
// Same UTC day keeps the streak, the day after extends it, any gap resets
// to 1.
func NextStreak(user *model.User, now time.Time) int {
	if user.LastSubmissionAt == nil {
		return 1
	}

	last := user.LastSubmissionAt.UTC()
	today := now.UTC().Format(util.DateFormat)
	lastDay := last.Format(util.DateFormat)
	yesterday := now.UTC().AddDate(0, 0, -1).Format(util.DateFormat)

	switch lastDay {
	case today:
		if user.CurrentStreak < 1 {
			return 1
		}
		return user.CurrentStreak
	case yesterday:
		return user.CurrentStreak + 1
	default:
		return 1
	}
}

// UploadAvatar stores the avatar through the configured provider and
// records the resulting URL.
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if !strings.HasPrefix(contentType, util.MimeImage) {
		return "", fmt.Errorf("unsupported avatar content type %q", contentType)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	allowed := false
	for _, e := range util.AllowedAvatarExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", fmt.Errorf("unsupported avatar extension %q", ext)
	}

	objectName := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.New().String(), ext)
	url, err := s.Storage.Upload(ctx, objectName, reader, size, contentType)
	if err != nil {
		return "", err
	}

	if err := s.Users.UpdateAvatar(userID, url); err != nil {
		return "", err
	}
	return url, nil
}
