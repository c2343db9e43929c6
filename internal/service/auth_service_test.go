package service

import (
	"errors"
	"testing"
	"time"

	"echobreak_backend/internal/config"
	"echobreak_backend/internal/model"
	"echobreak_backend/internal/util"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-with-enough-length-123",
			ExpireTime: time.Hour,
		},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserStore()
	svc := NewAuthService(users, testAuthConfig())

	user := &model.User{Name: "a", Email: "a@example.com", Password: "hunter22", Role: model.Member}
	if err := svc.Register(user); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Password == "hunter22" {
		t.Error("password stored in plaintext")
	}

	token, err := svc.Login("a@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := util.ParseJWT(token, "test-secret-with-enough-length-123")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != "a@example.com" {
		t.Errorf("claims = %+v, want the registered user", claims)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	svc := NewAuthService(users, testAuthConfig())

	if err := svc.Register(&model.User{Email: "a@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	err := svc.Register(&model.User{Email: "a@example.com", Password: "other"})
	if !errors.Is(err, util.ErrEmailRegistered) {
		t.Errorf("err = %v, want ErrEmailRegistered", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserStore()
	svc := NewAuthService(users, testAuthConfig())

	if err := svc.Register(&model.User{Email: "a@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login("a@example.com", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login("nobody@example.com", "hunter22"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials for unknown email", err)
	}
}
