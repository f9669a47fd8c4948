package model

import (
	"time"
)

// Subscription 订阅关系（subscriber 订阅 channel）
type Subscription struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(24)"`
	SubscriberID string `json:"subscriber_id" gorm:"type:varchar(24);index:idx_subscription_pair,unique;not null"`
	ChannelID    string `json:"channel_id" gorm:"type:varchar(24);index:idx_subscription_channel;index:idx_subscription_pair,unique;not null"`
	// 复合唯一键，避免重复订阅
	// idx_subscription_pair = (subscriber_id, channel_id)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }
