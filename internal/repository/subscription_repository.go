package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/streamhub/internal/model"
)

type SubscriptionRepository interface {
	// Find 不存在时返回 gorm.ErrRecordNotFound
	Find(ctx context.Context, subscriberID, channelID string) (*model.Subscription, error)
	// Create 幂等写入；并发下已存在则返回 false
	Create(ctx context.Context, s *model.Subscription) (bool, error)
	// DeleteByID 返回是否真正删除了一行
	DeleteByID(ctx context.Context, id string) (bool, error)
	CountByChannel(ctx context.Context, channelID string) (int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Find(ctx context.Context, subscriberID, channelID string) (*model.Subscription, error) {
	var s model.Subscription
	err := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		First(&s).Error
	if err != nil {
		return nil, errors.Wrap(err, "find subscription")
	}
	return &s, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, s *model.Subscription) (bool, error) {
	// 复合唯一键冲突时不报错，由 RowsAffected 判断
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(s)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "create subscription")
	}
	return res.RowsAffected > 0, nil
}

func (r *subscriptionRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Subscription{})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "delete subscription")
	}
	return res.RowsAffected > 0, nil
}

func (r *subscriptionRepository) CountByChannel(ctx context.Context, channelID string) (int64, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&cnt).Error; err != nil {
		return 0, errors.Wrap(err, "count subscribers")
	}
	return cnt, nil
}
