package repository

import (
	"context"
	"errors"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

type QuestionFilter struct {
	Category string
	Search   string
	Status   string
	Offset   int
	Limit    int
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type QuestionStats struct {
	TotalQuestions      int64
	TotalCategories     int64
	MostPopularCategory string
	TotalComments       int64
	TotalLikes          int64
}

func (r *QuestionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.DB.WithContext(ctx).Create(question).Error
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.WithContext(ctx).Preload("User").First(&question, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// UpdateFields writes only the given editable columns; counters are never part of it.
func (r *QuestionRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	delete(fields, "likes_count")
	delete(fields, "saves_count")
	delete(fields, "comments_count")
	if len(fields) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&model.Question{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes the question together with its memberships and comments.
func (r *QuestionRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.QuestionLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&model.QuestionSave{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&model.QuestionComment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Question{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrQuestionNotFound
		}
		return nil
	})
}

func (r *QuestionRepository) FindWithPagination(ctx context.Context, f QuestionFilter) ([]model.Question, int64, error) {
	var questions []model.Question
	var total int64

	query := r.DB.WithContext(ctx).Model(&model.Question{})

	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Category != "" && f.Category != model.CategoryAll {
		query = query.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		term := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", term, term)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Order("id DESC").
		Offset(f.Offset).Limit(f.Limit).
		Preload("User").
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// FindSavedBy pages through the questions userID has saved, most recent save first.
func (r *QuestionRepository) FindSavedBy(ctx context.Context, userID uint, offset, limit int) ([]model.Question, int64, error) {
	var questions []model.Question
	var total int64

	query := r.DB.WithContext(ctx).Model(&model.Question{}).
		Joins("JOIN question_saves ON question_saves.question_id = questions.id").
		Where("question_saves.user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Select("questions.*").
		Order("question_saves.created_at DESC").
		Offset(offset).Limit(limit).
		Preload("User").
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

func (r *QuestionRepository) CategoryCounts(ctx context.Context, status string) ([]CategoryCount, error) {
	var counts []CategoryCount
	err := r.DB.WithContext(ctx).Model(&model.Question{}).
		Select("category, COUNT(id) AS count").
		Where("status = ?", status).
		Group("category").
		Order("count DESC").Order("category ASC").
		Scan(&counts).Error
	return counts, err
}

func (r *QuestionRepository) Stats(ctx context.Context, status string) (*QuestionStats, error) {
	db := r.DB.WithContext(ctx)
	stats := &QuestionStats{MostPopularCategory: "None"}

	if err := db.Model(&model.Question{}).Where("status = ?", status).Count(&stats.TotalQuestions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Question{}).Where("status = ?", status).Distinct("category").Count(&stats.TotalCategories).Error; err != nil {
		return nil, err
	}

	counts, err := r.CategoryCounts(ctx, status)
	if err != nil {
		return nil, err
	}
	if len(counts) > 0 {
		stats.MostPopularCategory = counts[0].Category
	}

	published := db.Model(&model.Question{}).Select("id").Where("status = ?", status)
	if err := db.Model(&model.QuestionComment{}).Where("question_id IN (?)", published).Count(&stats.TotalComments).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.QuestionLike{}).Where("question_id IN (?)", published).Count(&stats.TotalLikes).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// ToggleEngagement flips the caller's like or save on a question.
func (r *QuestionRepository) ToggleEngagement(ctx context.Context, questionID, userID uint, kind model.EngagementKind) (*ToggleResult, error) {
	m, err := questionMembership(kind)
	if err != nil {
		return nil, err
	}

	var result *ToggleResult
	err = withConflictRetry(func() error {
		return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res, err := toggleMembership(tx, m, questionID, userID)
			if err != nil {
				return err
			}
			result = res
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *QuestionRepository) HasEngagement(ctx context.Context, questionID, userID uint, kind model.EngagementKind) (bool, error) {
	m, err := questionMembership(kind)
	if err != nil {
		return false, err
	}
	return hasMembership(r.DB.WithContext(ctx), m, questionID, userID)
}

// EngagementState returns which of ids userID has liked and saved.
func (r *QuestionRepository) EngagementState(ctx context.Context, userID uint, ids []uint) (liked, saved map[uint]bool, err error) {
	db := r.DB.WithContext(ctx)
	if liked, err = memberEntityIDs(db, questionLikes, userID, ids); err != nil {
		return nil, nil, err
	}
	if saved, err = memberEntityIDs(db, questionSaves, userID, ids); err != nil {
		return nil, nil, err
	}
	return liked, saved, nil
}

func questionMembership(kind model.EngagementKind) (membership, error) {
	switch kind {
	case model.EngagementLike:
		return questionLikes, nil
	case model.EngagementSave:
		return questionSaves, nil
	}
	return membership{}, util.ErrInvalidInput
}

// CreateComment inserts the comment and bumps comments_count in one
// transaction, returning the new count.
func (r *QuestionRepository) CreateComment(ctx context.Context, comment *model.QuestionComment) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockParent(tx, questionLikes, comment.QuestionID); err != nil {
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if err := adjustCounter(tx, &model.Question{}, "comments_count", comment.QuestionID, incrementExpr("comments_count")); err != nil {
			return err
		}
		var err error
		count, err = readCounter(tx, &model.Question{}, "comments_count", comment.QuestionID)
		return err
	})
	return count, err
}

func (r *QuestionRepository) FindComment(ctx context.Context, questionID, commentID uint) (*model.QuestionComment, error) {
	var comment model.QuestionComment
	err := r.DB.WithContext(ctx).
		Where("id = ? AND question_id = ?", commentID, questionID).
		Preload("User").
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes the comment and decrements comments_count (floored
// at zero) in one transaction, returning the new count.
func (r *QuestionRepository) DeleteComment(ctx context.Context, questionID, commentID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockParent(tx, questionLikes, questionID); err != nil {
			return err
		}
		res := tx.Where("id = ? AND question_id = ?", commentID, questionID).Delete(&model.QuestionComment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrCommentNotFound
		}
		if err := adjustCounter(tx, &model.Question{}, "comments_count", questionID, decrementExpr("comments_count")); err != nil {
			return err
		}
		var err error
		count, err = readCounter(tx, &model.Question{}, "comments_count", questionID)
		return err
	})
	return count, err
}

func (r *QuestionRepository) FindCommentsWithPagination(ctx context.Context, questionID uint, offset, limit int) ([]model.QuestionComment, int64, error) {
	var comments []model.QuestionComment
	var total int64

	query := r.DB.WithContext(ctx).Model(&model.QuestionComment{}).Where("question_id = ?", questionID)
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

// ReconcileCounters recomputes the three counters from their source tables.
func (r *QuestionRepository) ReconcileCounters(ctx context.Context, id uint) (*model.Question, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockParent(tx, questionLikes, id); err != nil {
			return err
		}
		var likes, saves, comments int64
		if err := tx.Model(&model.QuestionLike{}).Where("question_id = ?", id).Count(&likes).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.QuestionSave{}).Where("question_id = ?", id).Count(&saves).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.QuestionComment{}).Where("question_id = ?", id).Count(&comments).Error; err != nil {
			return err
		}
		return tx.Model(&model.Question{}).Where("id = ?", id).UpdateColumns(map[string]interface{}{
			"likes_count":    likes,
			"saves_count":    saves,
			"comments_count": comments,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}
