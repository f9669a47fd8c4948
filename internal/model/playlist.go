package model

import "time"

// Playlist 播放列表
type Playlist struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(24)"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	OwnerID     string    `json:"owner_id" gorm:"type:varchar(24);index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Playlist) TableName() string { return "playlists" }

func (p *Playlist) OwnedBy() string { return p.OwnerID }

// PlaylistVideo 播放列表成员；复合主键保证同一视频只出现一次
type PlaylistVideo struct {
	PlaylistID string    `gorm:"primaryKey;type:varchar(24)"`
	VideoID    string    `gorm:"primaryKey;type:varchar(24);index"`
	CreatedAt  time.Time
}

func (PlaylistVideo) TableName() string { return "playlist_videos" }
