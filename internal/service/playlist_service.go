package service

import (
	"context"
	"strings"

	"github.com/d60-Lab/streamhub/internal/model"
	"github.com/d60-Lab/streamhub/internal/repository"
	"github.com/d60-Lab/streamhub/pkg/apperr"
	"github.com/d60-Lab/streamhub/pkg/objectid"
)

// PlaylistUpdate 为 nil 的字段保持不变
type PlaylistUpdate struct {
	Name        *string
	Description *string
}

type PlaylistService interface {
	Create(ctx context.Context, actorID, name, description string) (*model.Playlist, error)
	Get(ctx context.Context, id string) (*model.PlaylistDetail, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Playlist, error)
	AddVideo(ctx context.Context, actorID, playlistID, videoID string) (*model.PlaylistDetail, error)
	RemoveVideo(ctx context.Context, actorID, playlistID, videoID string) (*model.PlaylistDetail, error)
	Update(ctx context.Context, actorID, id string, in PlaylistUpdate) (*model.Playlist, error)
	Delete(ctx context.Context, actorID, id string) error
}

type playlistService struct {
	repo   repository.PlaylistRepository
	videos repository.VideoRepository
	views  repository.ViewRepository
}

func NewPlaylistService(repo repository.PlaylistRepository, videos repository.VideoRepository, views repository.ViewRepository) PlaylistService {
	return &playlistService{repo: repo, videos: videos, views: views}
}

func (s *playlistService) Create(ctx context.Context, actorID, name, description string) (*model.Playlist, error) {
	name, description = strings.TrimSpace(name), strings.TrimSpace(description)
	if name == "" || description == "" {
		return nil, apperr.InvalidArgument("name and description are required")
	}
	p := &model.Playlist{ID: objectid.New(), Name: name, Description: description, OwnerID: actorID}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, storeErr(err, "user not found")
	}
	return p, nil
}

func (s *playlistService) Get(ctx context.Context, id string) (*model.PlaylistDetail, error) {
	if err := requireID(id, "invalid playlist id"); err != nil {
		return nil, err
	}
	d, err := s.views.PlaylistDetail(ctx, id)
	if err != nil {
		return nil, storeErr(err, "playlist not found")
	}
	return d, nil
}

func (s *playlistService) ListByUser(ctx context.Context, userID string) ([]*model.Playlist, error) {
	if err := requireID(userID, "invalid user id"); err != nil {
		return nil, err
	}
	list, err := s.views.UserPlaylists(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user not found")
	}
	return list, nil
}

// owned 读取播放列表并校验所有者
func (s *playlistService) owned(ctx context.Context, actorID, id string) (*model.Playlist, error) {
	if err := requireID(id, "invalid playlist id"); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "playlist not found")
	}
	if err := AssertOwner(p, actorID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *playlistService) AddVideo(ctx context.Context, actorID, playlistID, videoID string) (*model.PlaylistDetail, error) {
	if err := requireID(videoID, "invalid video id"); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, actorID, playlistID); err != nil {
		return nil, err
	}
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return nil, storeErr(err, "video not found")
	}
	if err := s.repo.AddVideo(ctx, playlistID, videoID); err != nil {
		return nil, storeErr(err, "playlist not found")
	}
	return s.Get(ctx, playlistID)
}

func (s *playlistService) RemoveVideo(ctx context.Context, actorID, playlistID, videoID string) (*model.PlaylistDetail, error) {
	if err := requireID(videoID, "invalid video id"); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, actorID, playlistID); err != nil {
		return nil, err
	}
	if err := s.repo.RemoveVideo(ctx, playlistID, videoID); err != nil {
		return nil, storeErr(err, "playlist not found")
	}
	return s.Get(ctx, playlistID)
}

func (s *playlistService) Update(ctx context.Context, actorID, id string, in PlaylistUpdate) (*model.Playlist, error) {
	fields := map[string]any{}
	if in.Name != nil {
		if n := strings.TrimSpace(*in.Name); n != "" {
			fields["name"] = n
		}
	}
	if in.Description != nil {
		if d := strings.TrimSpace(*in.Description); d != "" {
			fields["description"] = d
		}
	}
	if len(fields) == 0 {
		return nil, apperr.InvalidArgument("name or description is required")
	}
	if _, err := s.owned(ctx, actorID, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, storeErr(err, "playlist not found")
	}
	p, err := s.repo.GetByID(ctx, id)
	return p, storeErr(err, "playlist not found")
}

func (s *playlistService) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.owned(ctx, actorID, id); err != nil {
		return err
	}
	return storeErr(s.repo.Delete(ctx, id), "playlist not found")
}
