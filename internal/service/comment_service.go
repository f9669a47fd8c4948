package service

import (
	"context"
	"strings"

	"github.com/d60-Lab/streamhub/internal/model"
	"github.com/d60-Lab/streamhub/internal/repository"
	"github.com/d60-Lab/streamhub/pkg/apperr"
	"github.com/d60-Lab/streamhub/pkg/objectid"
)

type CommentService interface {
	ListByVideo(ctx context.Context, videoID string, page, limit int) ([]*model.CommentView, error)
	Get(ctx context.Context, id string) (*model.Comment, error)
	Add(ctx context.Context, actorID, videoID, content string) (*model.Comment, error)
	Update(ctx context.Context, actorID, id, content string) (*model.Comment, error)
	Delete(ctx context.Context, actorID, id string) error
}

type commentService struct {
	repo  repository.CommentRepository
	views repository.ViewRepository
}

func NewCommentService(repo repository.CommentRepository, views repository.ViewRepository) CommentService {
	return &commentService{repo: repo, views: views}
}

func (s *commentService) ListByVideo(ctx context.Context, videoID string, page, limit int) ([]*model.CommentView, error) {
	if err := requireID(videoID, "invalid video id"); err != nil {
		return nil, err
	}
	list, err := s.views.CommentFeed(ctx, videoID, page, limit)
	if err != nil {
		return nil, storeErr(err, "video not found")
	}
	return list, nil
}

func (s *commentService) Get(ctx context.Context, id string) (*model.Comment, error) {
	if err := requireID(id, "invalid comment id"); err != nil {
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "comment not found")
	}
	return c, nil
}

func (s *commentService) Add(ctx context.Context, actorID, videoID, content string) (*model.Comment, error) {
	if err := requireID(videoID, "invalid video id"); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidArgument("comment is empty")
	}
	c := &model.Comment{ID: objectid.New(), Content: content, VideoID: videoID, OwnerID: actorID}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, storeErr(err, "video not found")
	}
	return c, nil
}

func (s *commentService) Update(ctx context.Context, actorID, id, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidArgument("comment is empty")
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(c, actorID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateContent(ctx, id, content); err != nil {
		return nil, storeErr(err, "comment not found")
	}
	return s.Get(ctx, id)
}

func (s *commentService) Delete(ctx context.Context, actorID, id string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := AssertOwner(c, actorID); err != nil {
		return err
	}
	return storeErr(s.repo.Delete(ctx, id), "comment not found")
}
