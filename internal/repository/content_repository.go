package repository

import (
	"context"
	"errors"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

type ContentFilter struct {
	Topic     string
	PostType  string
	Status    string
	Search    string
	CreatedBy uint
	Offset    int
	Limit     int
}

func (r *ContentRepository) Create(ctx context.Context, content *model.Content) error {
	return r.DB.WithContext(ctx).Create(content).Error
}

func (r *ContentRepository) FindByID(ctx context.Context, id uint) (*model.Content, error) {
	var content model.Content
	err := r.DB.WithContext(ctx).First(&content, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *ContentRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	delete(fields, "likes_count")
	delete(fields, "comments_count")
	if len(fields) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&model.Content{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ContentRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("content_id = ?", id).Delete(&model.ContentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Content{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrContentNotFound
		}
		return nil
	})
}

func (r *ContentRepository) FindWithPagination(ctx context.Context, f ContentFilter) ([]model.Content, int64, error) {
	var contents []model.Content
	var total int64

	query := r.DB.WithContext(ctx).Model(&model.Content{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.CreatedBy != 0 {
		query = query.Where("created_by = ?", f.CreatedBy)
	}
	if f.Topic != "" {
		query = query.Where("topic = ?", f.Topic)
	}
	if f.PostType != "" {
		query = query.Where("post_type = ?", f.PostType)
	}
	if f.Search != "" {
		term := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(body) LIKE ?", term, term)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Order("id DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&contents).Error
	if err != nil {
		return nil, 0, err
	}
	return contents, total, nil
}

// ToggleLike flips the caller's like on a content post.
func (r *ContentRepository) ToggleLike(ctx context.Context, contentID, userID uint) (*ToggleResult, error) {
	var result *ToggleResult
	err := withConflictRetry(func() error {
		return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res, err := toggleMembership(tx, contentLikes, contentID, userID)
			result = res
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Unlike removes the caller's like when there is one.
func (r *ContentRepository) Unlike(ctx context.Context, contentID, userID uint) (*ToggleResult, error) {
	var result *ToggleResult
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := removeMembership(tx, contentLikes, contentID, userID)
		result = res
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LikedBy returns the subset of ids userID has liked.
func (r *ContentRepository) LikedBy(ctx context.Context, userID uint, ids []uint) (map[uint]bool, error) {
	return memberEntityIDs(r.DB.WithContext(ctx), contentLikes, userID, ids)
}

func (r *ContentRepository) CreateComment(ctx context.Context, comment *model.Comment) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockParent(tx, contentLikes, comment.ContentID); err != nil {
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if err := adjustCounter(tx, &model.Content{}, "comments_count", comment.ContentID, incrementExpr("comments_count")); err != nil {
			return err
		}
		var err error
		count, err = readCounter(tx, &model.Content{}, "comments_count", comment.ContentID)
		return err
	})
	return count, err
}

func (r *ContentRepository) FindComment(ctx context.Context, contentID, commentID uint) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.WithContext(ctx).
		Where("id = ? AND content_id = ?", commentID, contentID).
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *ContentRepository) DeleteComment(ctx context.Context, contentID, commentID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockParent(tx, contentLikes, contentID); err != nil {
			return err
		}
		res := tx.Where("id = ? AND content_id = ?", commentID, contentID).Delete(&model.Comment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrCommentNotFound
		}
		if err := adjustCounter(tx, &model.Content{}, "comments_count", contentID, decrementExpr("comments_count")); err != nil {
			return err
		}
		var err error
		count, err = readCounter(tx, &model.Content{}, "comments_count", contentID)
		return err
	})
	return count, err
}

func (r *ContentRepository) FindCommentsWithPagination(ctx context.Context, contentID uint, offset, limit int) ([]model.Comment, int64, error) {
	var comments []model.Comment
	var total int64

	query := r.DB.WithContext(ctx).Model(&model.Comment{}).Where("content_id = ?", contentID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Preload("User").
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}
