package model

import (
	"time"
)

const AnonymousAuthor = "Anonymous User"

// Question categories accepted on create/update. "All" is only a list filter.
var QuestionCategories = []string{"Addiction", "Trauma", "Relationships", "Anxiety", "Depression"}

const CategoryAll = "All"

func IsQuestionCategory(c string) bool {
	for _, known := range QuestionCategories {
		if known == c {
			return true
		}
	}
	return false
}

type Question struct {
	BaseModel
	Title         string `gorm:"size:500;not null;index" json:"title"`
	Category      string `gorm:"size:100;not null;index" json:"category"`
	Content       string `gorm:"type:text;not null" json:"content"`
	HasImage      bool   `gorm:"default:false" json:"has_image"`
	ImagePath     string `gorm:"size:500" json:"image_path"`
	AuthorName    string `gorm:"size:100;not null" json:"author_name"`
	IsAnonymous   bool   `gorm:"default:false" json:"is_anonymous"`
	LikesCount    int64  `gorm:"default:0;not null" json:"likes_count"`
	CommentsCount int64  `gorm:"default:0;not null" json:"comments_count"`
	SavesCount    int64  `gorm:"default:0;not null" json:"saves_count"`
	Status        string `gorm:"size:20;default:'published';not null;index" json:"status"`
	IsFeatured    bool   `gorm:"default:false;index" json:"is_featured"`
	UserID        uint   `gorm:"index;not null" json:"user_id"`
	User          *User  `gorm:"foreignKey:UserID" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}

type QuestionComment struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	QuestionID  uint      `gorm:"index;not null" json:"question_id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"-"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	IsAnonymous bool      `gorm:"default:false" json:"is_anonymous"`
}

func (QuestionComment) TableName() string {
	return "question_comments"
}

type QuestionLike struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	QuestionID uint      `gorm:"uniqueIndex:idx_question_like_user;not null" json:"question_id"`
	UserID     uint      `gorm:"uniqueIndex:idx_question_like_user;index;not null" json:"user_id"`
}

func (QuestionLike) TableName() string {
	return "question_likes"
}

type QuestionSave struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	QuestionID uint      `gorm:"uniqueIndex:idx_question_save_user;not null" json:"question_id"`
	UserID     uint      `gorm:"uniqueIndex:idx_question_save_user;index;not null" json:"user_id"`
}

func (QuestionSave) TableName() string {
	return "question_saves"
}

// EngagementKind selects the membership table a toggle acts on.
type EngagementKind string

const (
	EngagementLike EngagementKind = "like"
	EngagementSave EngagementKind = "save"
)
