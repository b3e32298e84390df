package repository

import (
	"context"
	"errors"
	"great_awareness_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

type PlatformCounts struct {
	TotalUsers      int64
	ActiveUsers     int64
	Counties        int64
	TotalQuestions  int64
	RecentQuestions int64
}

// TopCategory is one row of the top questions report.
type TopCategory struct {
	Category   string
	Count      int64
	QuestionID uint
	Question   string
}

func (r *AnalyticsRepository) PlatformCounts(ctx context.Context, recentSince time.Time) (*PlatformCounts, error) {
	db := r.DB.WithContext(ctx)
	c := &PlatformCounts{}

	if err := db.Model(&model.User{}).Count(&c.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.User{}).Where("status = ?", model.UserActive).Count(&c.ActiveUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.User{}).Where("county IS NOT NULL AND county <> ''").Distinct("county").Count(&c.Counties).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Question{}).Count(&c.TotalQuestions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Question{}).Where("created_at >= ?", recentSince).Count(&c.RecentQuestions).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// TopCategories counts questions per category created since `since` and
// attaches the most liked question of each category in the same window.
func (r *AnalyticsRepository) TopCategories(ctx context.Context, since time.Time, limit int) ([]TopCategory, error) {
	db := r.DB.WithContext(ctx)

	var counts []CategoryCount
	err := db.Model(&model.Question{}).
		Select("category, COUNT(id) AS count").
		Where("created_at >= ?", since).
		Group("category").
		Order("count DESC").Order("category ASC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	top := make([]TopCategory, 0, len(counts))
	for _, c := range counts {
		var sample model.Question
		err := db.Where("category = ? AND created_at >= ?", c.Category, since).
			Order("likes_count DESC").Order("created_at DESC").Order("id DESC").
			Take(&sample).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		top = append(top, TopCategory{
			Category:   c.Category,
			Count:      c.Count,
			QuestionID: sample.ID,
			Question:   sample.Title,
		})
	}
	return top, nil
}
