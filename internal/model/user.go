package model

import "time"

// User 用户（频道即以内容所有者身份出现的用户）
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(24)"`
	Username     string    `json:"username" gorm:"type:varchar(64);uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"type:varchar(128);uniqueIndex;not null"`
	FullName     string    `json:"full_name" gorm:"type:varchar(128)"`
	Avatar       string    `json:"avatar" gorm:"type:varchar(512)"`
	CoverImage   string    `json:"cover_image" gorm:"type:varchar(512)"`
	Password     string    `json:"-" gorm:"type:varchar(255);not null"`
	RefreshToken string    `json:"-" gorm:"type:varchar(512)"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
