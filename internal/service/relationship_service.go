package service

import (
	"context"

	"github.com/d60-Lab/streamhub/internal/model"
	"github.com/d60-Lab/streamhub/internal/repository"
	"github.com/d60-Lab/streamhub/pkg/apperr"
)

// RelationshipService 点赞与订阅
type RelationshipService interface {
	ToggleVideoLike(ctx context.Context, actorID, videoID string) (*ToggleResult, error)
	ToggleCommentLike(ctx context.Context, actorID, commentID string) (*ToggleResult, error)
	ToggleTweetLike(ctx context.Context, actorID, tweetID string) (*ToggleResult, error)
	ToggleSubscription(ctx context.Context, actorID, channelID string) (*ToggleResult, error)
	LikedVideos(ctx context.Context, actorID string) ([]*model.Video, error)
	// Subscribers 只有频道本人可以查看
	Subscribers(ctx context.Context, requesterID, channelID string) ([]*model.SubscriberView, error)
	// SubscribedChannels 只有订阅者本人可以查看
	SubscribedChannels(ctx context.Context, requesterID, subscriberID string) ([]*model.SubscribedChannelView, error)
}

type relationshipService struct {
	*Toggler
	views repository.ViewRepository
}

func NewRelationshipService(toggler *Toggler, views repository.ViewRepository) RelationshipService {
	return &relationshipService{Toggler: toggler, views: views}
}

func (s *relationshipService) LikedVideos(ctx context.Context, actorID string) ([]*model.Video, error) {
	if err := requireID(actorID, "invalid user"); err != nil {
		return nil, err
	}
	list, err := s.views.LikedVideos(ctx, actorID)
	if err != nil {
		return nil, storeErr(err, "liked videos not found")
	}
	return list, nil
}

func (s *relationshipService) Subscribers(ctx context.Context, requesterID, channelID string) ([]*model.SubscriberView, error) {
	if err := requireID(channelID, "invalid channel id"); err != nil {
		return nil, err
	}
	if requesterID != channelID {
		return nil, apperr.Forbidden("you can not get the subscriber list of this channel")
	}
	list, err := s.views.Subscribers(ctx, channelID)
	if err != nil {
		return nil, storeErr(err, "channel not found")
	}
	return list, nil
}

func (s *relationshipService) SubscribedChannels(ctx context.Context, requesterID, subscriberID string) ([]*model.SubscribedChannelView, error) {
	if err := requireID(subscriberID, "invalid subscriber id"); err != nil {
		return nil, err
	}
	if requesterID != subscriberID {
		return nil, apperr.Forbidden("you can not access subscriptions of other users")
	}
	list, err := s.views.SubscribedChannels(ctx, subscriberID)
	if err != nil {
		return nil, storeErr(err, "subscriber not found")
	}
	return list, nil
}
