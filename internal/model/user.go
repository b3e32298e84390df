package model

import (
	"time"
)

type UserRole string

const (
	RoleUser           UserRole = "user"
	RoleAdmin          UserRole = "admin"
	RoleContentCreator UserRole = "content_creator"
)

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
)

// swagger:model User
type User struct {
	BaseModel
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username     string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Role         UserRole   `gorm:"size:20;default:'user';not null" json:"role"`
	Status       UserStatus `gorm:"size:20;default:'active';not null" json:"status"`
	IsVerified   bool       `gorm:"default:false" json:"is_verified"`
	ProfileImage string     `gorm:"size:500" json:"profile_image"`
	FirstName    string     `gorm:"size:100" json:"first_name"`
	LastName     string     `gorm:"size:100" json:"last_name"`
	PhoneNumber  string     `gorm:"size:20;index" json:"phone_number"`
	County       string     `gorm:"size:100" json:"county"`
	VerifiedOTP  string     `gorm:"column:verified_otp;size:6" json:"verified_otp"`
	DeviceIDHash string     `gorm:"size:255;index" json:"device_id_hash"`
	LastLogin    *time.Time `json:"last_login"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool {
	return u.Status == UserActive
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// CanPublish reports whether the role may create content posts.
func (r UserRole) CanPublish() bool {
	return r == RoleAdmin || r == RoleContentCreator
}

// PasswordResetToken backs password resets when redis is disabled.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	CreatedAt time.Time `json:"-"`
	Token     string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	UserID    uint      `gorm:"index;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"-"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}
