package model

import "time"

// Comment 视频评论，仅作者可修改/删除
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(24)"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	VideoID   string    `json:"video_id" gorm:"type:varchar(24);index:idx_comment_video;not null"`
	OwnerID   string    `json:"owner_id" gorm:"type:varchar(24);index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }

func (c *Comment) OwnedBy() string { return c.OwnerID }
