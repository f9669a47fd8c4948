package service

import (
	"context"

	"github.com/d60-Lab/streamhub/internal/model"
	"github.com/d60-Lab/streamhub/internal/repository"
)

// DashboardService 频道看板；每次调用都重新计算
type DashboardService interface {
	ChannelStats(ctx context.Context, channelID string) (*model.ChannelStats, error)
	ChannelVideos(ctx context.Context, channelID string) ([]model.VideoSummary, error)
}

type dashboardService struct {
	videos repository.VideoRepository
	subs   repository.SubscriptionRepository
	likes  repository.LikeRepository
	views  repository.ViewRepository
}

func NewDashboardService(videos repository.VideoRepository, subs repository.SubscriptionRepository, likes repository.LikeRepository, views repository.ViewRepository) DashboardService {
	return &dashboardService{videos: videos, subs: subs, likes: likes, views: views}
}

func (s *dashboardService) ChannelStats(ctx context.Context, channelID string) (*model.ChannelStats, error) {
	if err := requireID(channelID, "invalid channel id"); err != nil {
		return nil, err
	}
	var (
		stats model.ChannelStats
		err   error
	)
	if stats.TotalVideos, err = s.videos.CountByOwner(ctx, channelID); err != nil {
		return nil, storeErr(err, "channel not found")
	}
	if stats.TotalViews, err = s.videos.SumViewsByOwner(ctx, channelID); err != nil {
		return nil, storeErr(err, "channel not found")
	}
	if stats.TotalSubscribers, err = s.subs.CountByChannel(ctx, channelID); err != nil {
		return nil, storeErr(err, "channel not found")
	}
	if stats.TotalLikes, err = s.likes.CountOnOwnerVideos(ctx, channelID); err != nil {
		return nil, storeErr(err, "channel not found")
	}
	return &stats, nil
}

func (s *dashboardService) ChannelVideos(ctx context.Context, channelID string) ([]model.VideoSummary, error) {
	if err := requireID(channelID, "invalid channel id"); err != nil {
		return nil, err
	}
	list, err := s.views.ChannelVideos(ctx, channelID)
	if err != nil {
		return nil, storeErr(err, "channel not found")
	}
	return list, nil
}
