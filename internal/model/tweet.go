package model

import "time"

// Tweet 短文本动态
type Tweet struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(24)"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	OwnerID   string    `json:"owner_id" gorm:"type:varchar(24);index:idx_tweet_owner_created;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_tweet_owner_created"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Tweet) TableName() string { return "tweets" }

func (t *Tweet) OwnedBy() string { return t.OwnerID }
