package model

import "time"

// Video 视频；views 只通过原子自增修改
type Video struct {
	ID                string    `json:"id" gorm:"primaryKey;type:varchar(24)"`
	OwnerID           string    `json:"owner_id" gorm:"type:varchar(24);index:idx_video_owner;not null"`
	Title             string    `json:"title" gorm:"type:varchar(255);not null"`
	Description       string    `json:"description" gorm:"type:text"`
	VideoFile         string    `json:"video_file" gorm:"type:varchar(512)"`
	Thumbnail         string    `json:"thumbnail" gorm:"type:varchar(512)"`
	VideoPublicID     string    `json:"-" gorm:"type:varchar(255)"`
	ThumbnailPublicID string    `json:"-" gorm:"type:varchar(255)"`
	Duration          float64   `json:"duration"`
	Views             int64     `json:"views" gorm:"not null;default:0"`
	IsPublished       bool      `json:"is_published" gorm:"not null"`
	CreatedAt         time.Time `json:"created_at" gorm:"index"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Video) TableName() string { return "videos" }

func (v *Video) OwnedBy() string { return v.OwnerID }
