package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/streamhub/internal/model"
)

// 评论、动态、播放列表的基础读写；组合视图见 views.go

type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}

type commentRepository struct{ db *gorm.DB }

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(c).Error, "create comment")
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, errors.Wrap(err, "get comment")
	}
	return &c, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id, content string) error {
	return errors.Wrap(r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ?", id).
		Update("content", content).Error, "update comment")
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return errors.Wrap(r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Comment{}).Error, "delete comment")
}

type TweetRepository interface {
	Create(ctx context.Context, t *model.Tweet) error
	GetByID(ctx context.Context, id string) (*model.Tweet, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}

type tweetRepository struct{ db *gorm.DB }

func NewTweetRepository(db *gorm.DB) TweetRepository { return &tweetRepository{db: db} }

func (r *tweetRepository) Create(ctx context.Context, t *model.Tweet) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(t).Error, "create tweet")
}

func (r *tweetRepository) GetByID(ctx context.Context, id string) (*model.Tweet, error) {
	var t model.Tweet
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, errors.Wrap(err, "get tweet")
	}
	return &t, nil
}

func (r *tweetRepository) UpdateContent(ctx context.Context, id, content string) error {
	return errors.Wrap(r.db.WithContext(ctx).
		Model(&model.Tweet{}).
		Where("id = ?", id).
		Update("content", content).Error, "update tweet")
}

func (r *tweetRepository) Delete(ctx context.Context, id string) error {
	return errors.Wrap(r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Tweet{}).Error, "delete tweet")
}

type PlaylistRepository interface {
	Create(ctx context.Context, p *model.Playlist) error
	GetByID(ctx context.Context, id string) (*model.Playlist, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	// Delete 同时删除成员关系
	Delete(ctx context.Context, id string) error
	// AddVideo 已在列表中时不做任何事
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
}

type playlistRepository struct{ db *gorm.DB }

func NewPlaylistRepository(db *gorm.DB) PlaylistRepository { return &playlistRepository{db: db} }

func (r *playlistRepository) Create(ctx context.Context, p *model.Playlist) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(p).Error, "create playlist")
}

func (r *playlistRepository) GetByID(ctx context.Context, id string) (*model.Playlist, error) {
	var p model.Playlist
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, errors.Wrap(err, "get playlist")
	}
	return &p, nil
}

func (r *playlistRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return errors.Wrap(r.db.WithContext(ctx).
		Model(&model.Playlist{}).
		Where("id = ?", id).
		Updates(fields).Error, "update playlist")
}

func (r *playlistRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistVideo{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Playlist{}).Error
	})
	return errors.Wrap(err, "delete playlist")
}

func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, videoID string) error {
	pv := &model.PlaylistVideo{PlaylistID: playlistID, VideoID: videoID}
	return errors.Wrap(r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(pv).Error, "add playlist video")
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	return errors.Wrap(r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&model.PlaylistVideo{}).Error, "remove playlist video")
}
