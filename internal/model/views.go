package model

import "time"

// 组合视图：关联出的用户信息一律是受限字段集，密码、token 等不会出现

// OwnerSummary 评论/动态/视频作者 {username, avatar}
type OwnerSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// UserProfile 订阅者/频道/播放列表所有者 {username, email, avatar, full_name}
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	FullName string `json:"full_name"`
}

type CommentView struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	VideoID   string       `json:"video_id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Owner     OwnerSummary `json:"owner"`
}

type TweetView struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Owner     OwnerSummary `json:"owner"`
}

// VideoDetail 单个视频 + 作者
type VideoDetail struct {
	Video
	Owner OwnerSummary `json:"owner"`
}

// VideoSummary 播放列表/频道视频列表中的视频字段
type VideoSummary struct {
	ID          string     `json:"id"`
	VideoFile   string     `json:"video_file"`
	Thumbnail   string     `json:"thumbnail"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    float64    `json:"duration"`
	Views       int64      `json:"views"`
	OwnerID     string     `json:"owner_id,omitempty"`
	IsPublished *bool      `json:"is_published,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

type PlaylistDetail struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Videos      []VideoSummary `json:"videos"`
	Owner       UserProfile    `json:"owner"`
}

// SubscriberView 频道的一个订阅者
type SubscriberView struct {
	ID           string      `json:"id"`
	SubscriberID string      `json:"subscriber_id"`
	ChannelID    string      `json:"channel_id"`
	CreatedAt    time.Time   `json:"created_at"`
	Subscriber   UserProfile `json:"subscriber"`
}

// SubscribedChannelView 用户订阅的一个频道
type SubscribedChannelView struct {
	ID           string      `json:"id"`
	SubscriberID string      `json:"subscriber_id"`
	ChannelID    string      `json:"channel_id"`
	CreatedAt    time.Time   `json:"created_at"`
	Channel      UserProfile `json:"channel"`
}

// ChannelStats 频道看板计数；空频道全部为 0
type ChannelStats struct {
	TotalVideos      int64 `json:"total_videos"`
	TotalSubscribers int64 `json:"total_subscribers"`
	TotalViews       int64 `json:"total_views"`
	TotalLikes       int64 `json:"total_likes"`
}
