package service

import (
	"context"
	"strings"

	"github.com/d60-Lab/streamhub/internal/model"
	"github.com/d60-Lab/streamhub/internal/repository"
	"github.com/d60-Lab/streamhub/pkg/apperr"
	"github.com/d60-Lab/streamhub/pkg/objectid"
)

type TweetService interface {
	Create(ctx context.Context, actorID, content string) (*model.Tweet, error)
	ListByUser(ctx context.Context, userID string) ([]*model.TweetView, error)
	Update(ctx context.Context, actorID, id, content string) (*model.Tweet, error)
	Delete(ctx context.Context, actorID, id string) error
}

type tweetService struct {
	repo  repository.TweetRepository
	views repository.ViewRepository
}

func NewTweetService(repo repository.TweetRepository, views repository.ViewRepository) TweetService {
	return &tweetService{repo: repo, views: views}
}

func (s *tweetService) Create(ctx context.Context, actorID, content string) (*model.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidArgument("content is required")
	}
	t := &model.Tweet{ID: objectid.New(), OwnerID: actorID, Content: content}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, storeErr(err, "user not found")
	}
	return t, nil
}

func (s *tweetService) ListByUser(ctx context.Context, userID string) ([]*model.TweetView, error) {
	if err := requireID(userID, "invalid user id"); err != nil {
		return nil, err
	}
	list, err := s.views.TweetFeed(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user not found")
	}
	return list, nil
}

func (s *tweetService) get(ctx context.Context, id string) (*model.Tweet, error) {
	if err := requireID(id, "invalid tweet id"); err != nil {
		return nil, err
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "tweet not found")
	}
	return t, nil
}

func (s *tweetService) Update(ctx context.Context, actorID, id, content string) (*model.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidArgument("content is required")
	}
	t, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(t, actorID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateContent(ctx, id, content); err != nil {
		return nil, storeErr(err, "tweet not found")
	}
	return s.get(ctx, id)
}

func (s *tweetService) Delete(ctx context.Context, actorID, id string) error {
	t, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := AssertOwner(t, actorID); err != nil {
		return err
	}
	return storeErr(s.repo.Delete(ctx, id), "tweet not found")
}
