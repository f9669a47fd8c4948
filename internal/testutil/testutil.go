// Package testutil 提供测试用的内存数据库与种子数据
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/streamhub/internal/model"
	"github.com/d60-Lab/streamhub/pkg/database"
	"github.com/d60-Lab/streamhub/pkg/objectid"
)

// NewDB 每个测试一个独立的内存库；单连接保证所有语句看到同一个库
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", objectid.New())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(tb, err)
	sqlDB, err := db.DB()
	require.NoError(tb, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(tb, database.Migrate(db))
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// SeedUser 插入一个用户；id 为空时自动生成
func SeedUser(tb testing.TB, db *gorm.DB, id, username string) *model.User {
	tb.Helper()
	if id == "" {
		id = objectid.New()
	}
	u := &model.User{
		ID:       id,
		Username: username,
		Email:    username + "@example.com",
		FullName: "Full " + username,
		Avatar:   "https://cdn.example.com/" + username + ".png",
		Password: "hash",
	}
	require.NoError(tb, db.Create(u).Error)
	return u
}

// SeedVideo 插入一个已发布视频
func SeedVideo(tb testing.TB, db *gorm.DB, ownerID, title string, views int64) *model.Video {
	tb.Helper()
	v := &model.Video{
		ID:          objectid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: title + " description",
		VideoFile:   "https://cdn.example.com/" + title + ".mp4",
		Thumbnail:   "https://cdn.example.com/" + title + ".jpg",
		Duration:    12.5,
		Views:       views,
		IsPublished: true,
	}
	require.NoError(tb, db.Create(v).Error)
	return v
}

// SeedComment 插入评论，createdAt 递增以便排序断言
func SeedComment(tb testing.TB, db *gorm.DB, videoID, ownerID, content string, at time.Time) *model.Comment {
	tb.Helper()
	c := &model.Comment{ID: objectid.New(), VideoID: videoID, OwnerID: ownerID, Content: content, CreatedAt: at, UpdatedAt: at}
	require.NoError(tb, db.Create(c).Error)
	return c
}

func SeedTweet(tb testing.TB, db *gorm.DB, ownerID, content string, at time.Time) *model.Tweet {
	tb.Helper()
	t := &model.Tweet{ID: objectid.New(), OwnerID: ownerID, Content: content, CreatedAt: at, UpdatedAt: at}
	require.NoError(tb, db.Create(t).Error)
	return t
}

func SeedLike(tb testing.TB, db *gorm.DB, subject model.Subject, likedBy string, at time.Time) *model.Like {
	tb.Helper()
	l := model.NewLike(objectid.New(), subject, likedBy)
	l.CreatedAt, l.UpdatedAt = at, at
	require.NoError(tb, db.Create(l).Error)
	return l
}

func SeedSubscription(tb testing.TB, db *gorm.DB, subscriberID, channelID string) *model.Subscription {
	tb.Helper()
	s := &model.Subscription{ID: objectid.New(), SubscriberID: subscriberID, ChannelID: channelID}
	require.NoError(tb, db.Create(s).Error)
	return s
}

// Count 统计表中满足条件的行数
func Count(tb testing.TB, db *gorm.DB, m any, query string, args ...any) int64 {
	tb.Helper()
	var n int64
	require.NoError(tb, db.WithContext(context.Background()).Model(m).Where(query, args...).Count(&n).Error)
	return n
}
