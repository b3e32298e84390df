package repository

import (
	"context"
	"errors"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/util"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WellnessRepository struct {
	DB *gorm.DB
}

func NewWellnessRepository(db *gorm.DB) *WellnessRepository {
	return &WellnessRepository{DB: db}
}

// SeedMilestones inserts every milestone whose duration is not present yet
// and returns how many were created.
func (r *WellnessRepository) SeedMilestones(ctx context.Context, milestones []model.Milestone) (int, error) {
	created := 0
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range milestones {
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "duration_seconds"}},
				DoNothing: true,
			}).Create(&milestones[i])
			if res.Error != nil {
				return res.Error
			}
			created += int(res.RowsAffected)
		}
		return nil
	})
	return created, err
}

func (r *WellnessRepository) ActiveMilestones(ctx context.Context) ([]model.Milestone, error) {
	var milestones []model.Milestone
	err := r.DB.WithContext(ctx).Where("is_active = ?", true).Order("duration_seconds ASC").Find(&milestones).Error
	return milestones, err
}

func (r *WellnessRepository) FindMilestone(ctx context.Context, id uint) (*model.Milestone, error) {
	var m model.Milestone
	err := r.DB.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrMilestoneNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *WellnessRepository) Unlocks(ctx context.Context, userID uint) (map[uint]time.Time, error) {
	var rows []model.UserMilestone
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	unlocked := make(map[uint]time.Time, len(rows))
	for _, row := range rows {
		unlocked[row.MilestoneID] = row.UnlockedAt
	}
	return unlocked, nil
}

// Unlock records the unlock once; repeated calls return the first record.
func (r *WellnessRepository) Unlock(ctx context.Context, userID, milestoneID uint, at time.Time) (*model.UserMilestone, error) {
	db := r.DB.WithContext(ctx)
	row := &model.UserMilestone{UserID: userID, MilestoneID: milestoneID, UnlockedAt: at}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "milestone_id"}},
		DoNothing: true,
	}).Create(row).Error
	if err != nil {
		return nil, err
	}

	var existing model.UserMilestone
	if err := db.Where("user_id = ? AND milestone_id = ?", userID, milestoneID).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}
