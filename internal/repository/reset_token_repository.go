package repository

import (
	"context"
	"errors"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/util"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const resetTokenPrefix = "password_reset:"

// RedisResetTokenStore keeps reset tokens as expiring redis keys.
type RedisResetTokenStore struct {
	Redis *redis.Client
}

func NewRedisResetTokenStore(rdb *redis.Client) *RedisResetTokenStore {
	return &RedisResetTokenStore{Redis: rdb}
}

func (s *RedisResetTokenStore) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	return s.Redis.Set(ctx, resetTokenPrefix+token, userID, ttl).Err()
}

func (s *RedisResetTokenStore) Consume(ctx context.Context, token string) (uint, error) {
	val, err := s.Redis.GetDel(ctx, resetTokenPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, util.ErrInvalidResetToken
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, util.ErrInvalidResetToken
	}
	return uint(id), nil
}

// DBResetTokenStore is used when redis is disabled.
type DBResetTokenStore struct {
	DB *gorm.DB
}

func NewDBResetTokenStore(db *gorm.DB) *DBResetTokenStore {
	return &DBResetTokenStore{DB: db}
}

func (s *DBResetTokenStore) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	db := s.DB.WithContext(ctx)
	// expired rows are dropped opportunistically
	if err := db.Where("expires_at < ?", time.Now()).Delete(&model.PasswordResetToken{}).Error; err != nil {
		return err
	}
	return db.Create(&model.PasswordResetToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
	}).Error
}

func (s *DBResetTokenStore) Consume(ctx context.Context, token string) (uint, error) {
	var userID uint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.PasswordResetToken
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ?", token).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrInvalidResetToken
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(&row).Error; err != nil {
			return err
		}
		if time.Now().After(row.ExpiresAt) {
			return util.ErrInvalidResetToken
		}
		userID = row.UserID
		return nil
	})
	return userID, err
}
