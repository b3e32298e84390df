package model

import (
	"time"
)

type Milestone struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Label           string    `gorm:"size:50;not null" json:"label"`
	DurationSeconds int64     `gorm:"uniqueIndex;not null" json:"duration_seconds"`
	IconCode        int       `gorm:"not null" json:"icon_code"`
	ColorHex        string    `gorm:"size:7;not null" json:"color_hex"`
	Description     string    `gorm:"size:255" json:"description"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
}

func (Milestone) TableName() string {
	return "milestones"
}

type UserMilestone struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"uniqueIndex:idx_user_milestone;not null" json:"user_id"`
	MilestoneID uint      `gorm:"uniqueIndex:idx_user_milestone;not null" json:"milestone_id"`
	UnlockedAt  time.Time `gorm:"not null" json:"unlocked_at"`
}

func (UserMilestone) TableName() string {
	return "user_milestones"
}

// DefaultMilestones are the recovery streak milestones seeded by the wellness init endpoint.
func DefaultMilestones() []Milestone {
	return []Milestone{
		{Label: "1 Day", DurationSeconds: 86400, IconCode: 0xf55b, ColorHex: "#4CAF50", Description: "First full day", IsActive: true},
		{Label: "3 Days", DurationSeconds: 259200, IconCode: 0xf091, ColorHex: "#2196F3", Description: "Three days strong", IsActive: true},
		{Label: "1 Week", DurationSeconds: 604800, IconCode: 0xf005, ColorHex: "#9C27B0", Description: "One full week", IsActive: true},
		{Label: "2 Weeks", DurationSeconds: 1209600, IconCode: 0xf006, ColorHex: "#FF9800", Description: "Two weeks in", IsActive: true},
		{Label: "1 Month", DurationSeconds: 2592000, IconCode: 0xf0a3, ColorHex: "#E91E63", Description: "A whole month", IsActive: true},
	}
}
