package model

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationMention NotificationType = "mention"
	NotificationSystem  NotificationType = "system"
	NotificationPost    NotificationType = "post"
	NotificationContent NotificationType = "content"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationLike, NotificationComment, NotificationFollow, NotificationMention,
		NotificationSystem, NotificationPost, NotificationContent:
		return true
	}
	return false
}

type Notification struct {
	BaseModel
	Type         NotificationType `gorm:"column:notification_type;size:20;not null;index" json:"notification_type"`
	Title        string           `gorm:"size:255;not null" json:"title"`
	Body         string           `gorm:"type:text" json:"body"`
	ContentID    *uint            `gorm:"index" json:"content_id"`
	QuestionID   *uint            `gorm:"index" json:"question_id"`
	AuthorName   string           `gorm:"size:100" json:"author_name"`
	AuthorAvatar string           `gorm:"size:500" json:"author_avatar"`
	UserID       uint             `gorm:"index;not null" json:"user_id"`
	IsRead       bool             `gorm:"default:false;index" json:"is_read"`
}

func (Notification) TableName() string {
	return "notifications"
}
