package service

import (
	"context"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

type WellnessService struct {
	WellnessRepo WellnessStore
}

func NewWellnessService(wellnessRepo WellnessStore) *WellnessService {
	return &WellnessService{WellnessRepo: wellnessRepo}
}

type InitMilestonesResponse struct {
	Created int `json:"created"`
}

type MilestoneResponse struct {
	ID              uint       `json:"id"`
	Label           string     `json:"label"`
	DurationSeconds int64      `json:"duration_seconds"`
	IconCode        int        `json:"icon_code"`
	ColorHex        string     `json:"color_hex"`
	Description     string     `json:"description"`
	IsUnlocked      bool       `json:"is_unlocked"`
	UnlockedAt      *time.Time `json:"unlocked_at"`
}

type UnlockResponse struct {
	MilestoneID uint      `json:"milestone_id"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

func (s *WellnessService) InitMilestones(ctx context.Context, adminID uint) (*InitMilestonesResponse, error) {
	created, err := s.WellnessRepo.SeedMilestones(ctx, model.DefaultMilestones())
	if err != nil {
		return nil, err
	}
	logger.Log.Info("milestones seeded", zap.Uint("user_id", adminID), zap.Int("created", created))
	return &InitMilestonesResponse{Created: created}, nil
}

func (s *WellnessService) Milestones(ctx context.Context, userID uint) ([]MilestoneResponse, error) {
	milestones, err := s.WellnessRepo.ActiveMilestones(ctx)
	if err != nil {
		return nil, err
	}
	unlocks, err := s.WellnessRepo.Unlocks(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]MilestoneResponse, 0, len(milestones))
	for _, m := range milestones {
		item := MilestoneResponse{
			ID:              m.ID,
			Label:           m.Label,
			DurationSeconds: m.DurationSeconds,
			IconCode:        m.IconCode,
			ColorHex:        m.ColorHex,
			Description:     m.Description,
		}
		if at, ok := unlocks[m.ID]; ok {
			at := at
			item.IsUnlocked = true
			item.UnlockedAt = &at
		}
		resp = append(resp, item)
	}
	return resp, nil
}

func (s *WellnessService) Unlock(ctx context.Context, userID, milestoneID uint) (*UnlockResponse, error) {
	if _, err := s.WellnessRepo.FindMilestone(ctx, milestoneID); err != nil {
		return nil, err
	}
	row, err := s.WellnessRepo.Unlock(ctx, userID, milestoneID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	logger.Log.Info("milestone unlocked", zap.Uint("user_id", userID), zap.Uint("milestone_id", milestoneID))
	return &UnlockResponse{MilestoneID: row.MilestoneID, UnlockedAt: row.UnlockedAt}, nil
}
