package service

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/streamhub/internal/model"
	"github.com/d60-Lab/streamhub/internal/repository"
	"github.com/d60-Lab/streamhub/pkg/apperr"
	"github.com/d60-Lab/streamhub/pkg/logger"
	"github.com/d60-Lab/streamhub/pkg/objectid"
	"github.com/d60-Lab/streamhub/pkg/storage"
)

// MediaStorage 媒体文件存储
type MediaStorage interface {
	Upload(ctx context.Context, localPath string) (*storage.Asset, error)
	Delete(ctx context.Context, publicID string) error
}

// PublishInput 发布视频；两个本地路径都必须存在。
// 视频上传失败时封面临时文件由 Publish 删除，其余情况由调用方清理
type PublishInput struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
}

// VideoUpdate ThumbnailPath 为空时保留原封面
type VideoUpdate struct {
	Title         string
	Description   string
	ThumbnailPath string
}

type VideoService interface {
	List(ctx context.Context, q repository.VideoQuery) ([]*model.Video, error)
	Publish(ctx context.Context, actorID string, in PublishInput) (*model.Video, error)
	// GetByID 每次读取都会使播放量 +1
	GetByID(ctx context.Context, id string) (*model.VideoDetail, error)
	Update(ctx context.Context, actorID, id string, in VideoUpdate) (*model.Video, error)
	Delete(ctx context.Context, actorID, id string) error
	TogglePublish(ctx context.Context, actorID, id string) (*model.Video, error)
}

type videoService struct {
	repo  repository.VideoRepository
	views repository.ViewRepository
	media MediaStorage
}

func NewVideoService(repo repository.VideoRepository, views repository.ViewRepository, media MediaStorage) VideoService {
	return &videoService{repo: repo, views: views, media: media}
}

func (s *videoService) List(ctx context.Context, q repository.VideoQuery) ([]*model.Video, error) {
	if q.UserID != "" {
		if err := requireID(q.UserID, "invalid user id"); err != nil {
			return nil, err
		}
	}
	list, err := s.views.VideoFeed(ctx, q)
	if err != nil {
		return nil, storeErr(err, "videos not found")
	}
	return list, nil
}

func (s *videoService) Publish(ctx context.Context, actorID string, in PublishInput) (*model.Video, error) {
	title, description := strings.TrimSpace(in.Title), strings.TrimSpace(in.Description)
	switch {
	case title == "":
		return nil, apperr.InvalidArgument("title is required")
	case description == "":
		return nil, apperr.InvalidArgument("description is required")
	case in.VideoPath == "":
		return nil, apperr.InvalidArgument("video file is required")
	case in.ThumbnailPath == "":
		return nil, apperr.InvalidArgument("thumbnail file is required")
	}

	videoAsset, err := s.media.Upload(ctx, in.VideoPath)
	if err != nil {
		if rmErr := os.Remove(in.ThumbnailPath); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Warn("remove thumbnail temp file failed", zap.String("path", in.ThumbnailPath), zap.Error(rmErr))
		}
		return nil, apperr.Upstream(err, "error while uploading the video")
	}
	thumbAsset, err := s.media.Upload(ctx, in.ThumbnailPath)
	if err != nil {
		s.discard(ctx, videoAsset.PublicID)
		return nil, apperr.Upstream(err, "error while uploading the thumbnail")
	}

	v := &model.Video{
		ID:                objectid.New(),
		OwnerID:           actorID,
		Title:             title,
		Description:       description,
		VideoFile:         videoAsset.URL,
		Thumbnail:         thumbAsset.URL,
		VideoPublicID:     videoAsset.PublicID,
		ThumbnailPublicID: thumbAsset.PublicID,
		Duration:          videoAsset.Duration,
		IsPublished:       true,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		s.discard(ctx, videoAsset.PublicID)
		s.discard(ctx, thumbAsset.PublicID)
		return nil, storeErr(err, "user not found")
	}
	return v, nil
}

func (s *videoService) GetByID(ctx context.Context, id string) (*model.VideoDetail, error) {
	if err := requireID(id, "invalid video id"); err != nil {
		return nil, err
	}
	hit, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		return nil, storeErr(err, "video not found")
	}
	if !hit {
		return nil, apperr.NotFound("video not found")
	}
	d, err := s.views.VideoDetail(ctx, id)
	if err != nil {
		return nil, storeErr(err, "video not found")
	}
	return d, nil
}

func (s *videoService) owned(ctx context.Context, actorID, id string) (*model.Video, error) {
	if err := requireID(id, "invalid video id"); err != nil {
		return nil, err
	}
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "video not found")
	}
	if err := AssertOwner(v, actorID); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *videoService) Update(ctx context.Context, actorID, id string, in VideoUpdate) (*model.Video, error) {
	title, description := strings.TrimSpace(in.Title), strings.TrimSpace(in.Description)
	if title == "" {
		return nil, apperr.InvalidArgument("title is required")
	}
	if description == "" {
		return nil, apperr.InvalidArgument("description is required")
	}
	v, err := s.owned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"title": title, "description": description}
	var newThumb string
	if in.ThumbnailPath != "" {
		thumb, err := s.media.Upload(ctx, in.ThumbnailPath)
		if err != nil {
			return nil, apperr.Upstream(err, "error while uploading the thumbnail")
		}
		fields["thumbnail"] = thumb.URL
		fields["thumbnail_public_id"] = thumb.PublicID
		newThumb = thumb.PublicID
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		s.discard(ctx, newThumb)
		return nil, storeErr(err, "video not found")
	}
	// 落库成功后再删旧封面
	if newThumb != "" {
		s.discard(ctx, v.ThumbnailPublicID)
	}
	v, err = s.repo.GetByID(ctx, id)
	return v, storeErr(err, "video not found")
}

func (s *videoService) Delete(ctx context.Context, actorID, id string) error {
	v, err := s.owned(ctx, actorID, id)
	if err != nil {
		return err
	}
	for _, publicID := range []string{v.VideoPublicID, v.ThumbnailPublicID} {
		if publicID == "" {
			continue
		}
		if err := s.media.Delete(ctx, publicID); err != nil {
			return apperr.Upstream(err, "error while deleting media")
		}
	}
	return storeErr(s.repo.Delete(ctx, id), "video not found")
}

func (s *videoService) TogglePublish(ctx context.Context, actorID, id string) (*model.Video, error) {
	v, err := s.owned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, map[string]any{"is_published": !v.IsPublished}); err != nil {
		return nil, storeErr(err, "video not found")
	}
	v, err = s.repo.GetByID(ctx, id)
	return v, storeErr(err, "video not found")
}

// discard 清理已上传但不再需要的对象，失败只记录日志
func (s *videoService) discard(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if err := s.media.Delete(ctx, publicID); err != nil {
		logger.Warn("discard media failed", zap.String("public_id", publicID), zap.Error(err))
	}
}
