package model

import (
	"time"
)

type UserRole string

const (
	Member UserRole = "member"
	Editor UserRole = "editor"
	Admin  UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"type:enum('member','editor','admin');default:'member'" json:"role"`
	Avatar   string   `gorm:"size:255" json:"avatar"`

	// Self-declared political lean on the same -3..+3 scale as article
	// bias ratings. Zero means undeclared or centrist.
	PoliticalLean float64 `gorm:"default:0" json:"politicalLean"`

	CurrentStreak    int        `gorm:"default:0" json:"currentStreak"`
	LastSubmissionAt *time.Time `json:"lastSubmissionAt,omitempty"`

	// Live Echo Score, overwritten by every calculate-and-save.
	// History lives in echo_score_snapshots.
	EchoScore float64 `gorm:"default:0" json:"echoScore"`

	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
