package repository

import (
	"context"
	"errors"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/util"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

type NotificationFilter struct {
	UserID uint
	IsRead *bool
	Type   model.NotificationType
	Offset int
	Limit  int
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.DB.WithContext(ctx).Create(n).Error
}

// FindForUser returns the notification only when it belongs to userID.
func (r *NotificationRepository) FindForUser(ctx context.Context, id, userID uint) (*model.Notification, error) {
	var n model.Notification
	err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) FindWithPagination(ctx context.Context, f NotificationFilter) ([]model.Notification, int64, int64, error) {
	var items []model.Notification
	var total, unread int64

	db := r.DB.WithContext(ctx)
	query := db.Model(&model.Notification{}).Where("user_id = ?", f.UserID)
	if f.IsRead != nil {
		query = query.Where("is_read = ?", *f.IsRead)
	}
	if f.Type != "" {
		query = query.Where("notification_type = ?", f.Type)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}
	if err := query.Order("created_at DESC").Order("id DESC").Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return nil, 0, 0, err
	}
	if err := db.Model(&model.Notification{}).Where("user_id = ? AND is_read = ?", f.UserID, false).Count(&unread).Error; err != nil {
		return nil, 0, 0, err
	}
	return items, total, unread, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uint) error {
	res := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) Delete(ctx context.Context, id, userID uint) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrNotificationNotFound
	}
	return nil
}
