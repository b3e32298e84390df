package model

import (
	"time"
)

const (
	PostTypeText  = "text"
	PostTypeImage = "image"

	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusArchived  = "archived"
	StatusReported  = "reported"
)

// Content is an editorial post. LikesCount mirrors the ContentLike rows and
// CommentsCount the Comment rows.
type Content struct {
	BaseModel
	Title         string     `gorm:"size:255;not null;index" json:"title"`
	Body          string     `gorm:"type:text;not null" json:"body"`
	Topic         string     `gorm:"size:100;index" json:"topic"`
	PostType      string     `gorm:"size:20;default:'text';not null" json:"post_type"`
	ImagePath     string     `gorm:"size:500" json:"image_path"`
	IsTextOnly    bool       `gorm:"not null" json:"is_text_only"`
	AuthorName    string     `gorm:"size:100;default:'Admin'" json:"author_name"`
	AuthorAvatar  string     `gorm:"size:500" json:"author_avatar"`
	LikesCount    int64      `gorm:"default:0;not null" json:"likes_count"`
	CommentsCount int64      `gorm:"default:0;not null" json:"comments_count"`
	Status        string     `gorm:"size:20;default:'published';not null;index" json:"status"`
	IsFeatured    bool       `gorm:"default:false;index" json:"is_featured"`
	CreatedBy     uint       `gorm:"index;not null" json:"created_by"`
	Creator       *User      `gorm:"foreignKey:CreatedBy" json:"-"`
	PublishedAt   *time.Time `json:"published_at"`
}

func (Content) TableName() string {
	return "contents"
}

type ContentLike struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ContentID uint      `gorm:"uniqueIndex:idx_content_like_user;not null" json:"content_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_content_like_user;index;not null" json:"user_id"`
}

func (ContentLike) TableName() string {
	return "content_likes"
}

type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ContentID uint      `gorm:"index;not null" json:"content_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	Text      string    `gorm:"type:text;not null" json:"text"`
}

func (Comment) TableName() string {
	return "comments"
}
