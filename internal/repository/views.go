package repository

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/d60-Lab/streamhub/internal/model"
	"github.com/d60-Lab/streamhub/internal/pipeline"
)

// 组合读视图。关联用户时只取受限字段：
// 作者 {username, avatar}，订阅者/频道/列表所有者 {username, email, avatar, full_name}

var (
	ownerSummaryFields = []string{"username", "avatar"}
	profileFields      = []string{"username", "email", "avatar", "full_name"}
	videoSummaryFields = []string{"id", "video_file", "thumbnail", "title", "description", "duration", "views", "owner_id"}
)

func userJoin(as, localField string, fields []string) pipeline.Join {
	return pipeline.Join{Table: "users", As: as, LocalField: localField, ForeignField: "id", Fields: fields}
}

// VideoQuery 视频列表条件；Query 为标题的不区分大小写子串
type VideoQuery struct {
	Page     int
	Limit    int
	Query    string
	SortBy   string
	SortType string
	UserID   string
}

type ViewRepository interface {
	VideoFeed(ctx context.Context, q VideoQuery) ([]*model.Video, error)
	// VideoDetail 不存在时返回 gorm.ErrRecordNotFound
	VideoDetail(ctx context.Context, videoID string) (*model.VideoDetail, error)
	CommentFeed(ctx context.Context, videoID string, page, limit int) ([]*model.CommentView, error)
	TweetFeed(ctx context.Context, ownerID string) ([]*model.TweetView, error)
	PlaylistDetail(ctx context.Context, playlistID string) (*model.PlaylistDetail, error)
	UserPlaylists(ctx context.Context, ownerID string) ([]*model.Playlist, error)
	LikedVideos(ctx context.Context, userID string) ([]*model.Video, error)
	Subscribers(ctx context.Context, channelID string) ([]*model.SubscriberView, error)
	SubscribedChannels(ctx context.Context, subscriberID string) ([]*model.SubscribedChannelView, error)
	ChannelVideos(ctx context.Context, ownerID string) ([]model.VideoSummary, error)
}

type viewRepository struct{ db *gorm.DB }

func NewViewRepository(db *gorm.DB) ViewRepository { return &viewRepository{db: db} }

// VideoFeedPipeline match(owner, title) → sort → skip → limit
func VideoFeedPipeline(q VideoQuery) pipeline.Pipeline {
	p := pipeline.New(&model.Video{})
	if q.UserID != "" {
		p = p.Match("videos.owner_id = ?", q.UserID)
	}
	if s := strings.TrimSpace(q.Query); s != "" {
		p = p.Match(`LOWER(videos.title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(s))+"%")
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	sortType := q.SortType
	if sortType == "" {
		sortType = "desc"
	}
	return p.Sort(sortBy, pipeline.ParseDirection(sortType)).Page(q.Page, q.Limit)
}

func (r *viewRepository) VideoFeed(ctx context.Context, q VideoQuery) ([]*model.Video, error) {
	res := make([]*model.Video, 0)
	if err := VideoFeedPipeline(q).Scan(ctx, r.db, &res); err != nil {
		return nil, errors.Wrap(err, "video feed")
	}
	return res, nil
}

type videoDetailRow struct {
	model.Video
	OwnerUsername string
	OwnerAvatar   string
}

func (r *viewRepository) VideoDetail(ctx context.Context, videoID string) (*model.VideoDetail, error) {
	var rows []videoDetailRow
	err := pipeline.New(&model.Video{}).
		Match("videos.id = ?", videoID).
		Lookup(userJoin("owner", "owner_id", ownerSummaryFields)).
		Scan(ctx, r.db, &rows)
	if err != nil {
		return nil, errors.Wrap(err, "video detail")
	}
	if len(rows) == 0 {
		return nil, errors.Wrap(gorm.ErrRecordNotFound, "video detail")
	}
	row := rows[0]
	return &model.VideoDetail{
		Video: row.Video,
		Owner: model.OwnerSummary{ID: row.OwnerID, Username: row.OwnerUsername, Avatar: row.OwnerAvatar},
	}, nil
}

// CommentFeedPipeline match(video) → skip → limit → lookup(owner)
func CommentFeedPipeline(videoID string, page, limit int) pipeline.Pipeline {
	return pipeline.New(&model.Comment{}).
		Match("comments.video_id = ?", videoID).
		Page(page, limit).
		Lookup(userJoin("owner", "owner_id", ownerSummaryFields))
}

type commentRow struct {
	model.Comment
	OwnerUsername string
	OwnerAvatar   string
}

func (r *viewRepository) CommentFeed(ctx context.Context, videoID string, page, limit int) ([]*model.CommentView, error) {
	var rows []commentRow
	if err := CommentFeedPipeline(videoID, page, limit).Scan(ctx, r.db, &rows); err != nil {
		return nil, errors.Wrap(err, "comment feed")
	}
	res := make([]*model.CommentView, len(rows))
	for i, row := range rows {
		res[i] = &model.CommentView{
			ID:        row.ID,
			Content:   row.Content,
			VideoID:   row.VideoID,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			Owner:     model.OwnerSummary{ID: row.OwnerID, Username: row.OwnerUsername, Avatar: row.OwnerAvatar},
		}
	}
	return res, nil
}

// TweetFeedPipeline match(owner) → sort(created_at desc) → lookup(owner)
func TweetFeedPipeline(ownerID string) pipeline.Pipeline {
	return pipeline.New(&model.Tweet{}).
		Match("tweets.owner_id = ?", ownerID).
		Sort("created_at", pipeline.Desc).
		Lookup(userJoin("owner", "owner_id", ownerSummaryFields))
}

type tweetRow struct {
	model.Tweet
	OwnerUsername string
	OwnerAvatar   string
}

func (r *viewRepository) TweetFeed(ctx context.Context, ownerID string) ([]*model.TweetView, error) {
	var rows []tweetRow
	if err := TweetFeedPipeline(ownerID).Scan(ctx, r.db, &rows); err != nil {
		return nil, errors.Wrap(err, "tweet feed")
	}
	res := make([]*model.TweetView, len(rows))
	for i, row := range rows {
		res[i] = &model.TweetView{
			ID:        row.ID,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			Owner:     model.OwnerSummary{ID: row.OwnerID, Username: row.OwnerUsername, Avatar: row.OwnerAvatar},
		}
	}
	return res, nil
}

type playlistRow struct {
	model.Playlist
	OwnerUsername string
	OwnerEmail    string
	OwnerAvatar   string
	OwnerFullName string
}

func (r *viewRepository) PlaylistDetail(ctx context.Context, playlistID string) (*model.PlaylistDetail, error) {
	var rows []playlistRow
	err := pipeline.New(&model.Playlist{}).
		Match("playlists.id = ?", playlistID).
		Lookup(userJoin("owner", "owner_id", profileFields)).
		Scan(ctx, r.db, &rows)
	if err != nil {
		return nil, errors.Wrap(err, "playlist detail")
	}
	if len(rows) == 0 {
		return nil, errors.Wrap(gorm.ErrRecordNotFound, "playlist detail")
	}

	videos := make([]model.VideoSummary, 0)
	err = pipeline.New(&model.Video{}).
		Match("videos.id IN (?)", r.db.WithContext(ctx).Table("playlist_videos").Select("video_id").Where("playlist_id = ?", playlistID)).
		Sort("created_at", pipeline.Asc).
		Project(videoSummaryFields...).
		Scan(ctx, r.db, &videos)
	if err != nil {
		return nil, errors.Wrap(err, "playlist videos")
	}

	row := rows[0]
	return &model.PlaylistDetail{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		Videos:      videos,
		Owner: model.UserProfile{
			ID:       row.OwnerID,
			Username: row.OwnerUsername,
			Email:    row.OwnerEmail,
			Avatar:   row.OwnerAvatar,
			FullName: row.OwnerFullName,
		},
	}, nil
}

func (r *viewRepository) UserPlaylists(ctx context.Context, ownerID string) ([]*model.Playlist, error) {
	res := make([]*model.Playlist, 0)
	err := pipeline.New(&model.Playlist{}).
		Match("playlists.owner_id = ?", ownerID).
		Sort("created_at", pipeline.Desc).
		Scan(ctx, r.db, &res)
	return res, errors.Wrap(err, "user playlists")
}

// LikedVideosPipeline match(actor, kind=video) → lookup(video) → replaceRoot(video)，按点赞时间倒序
func LikedVideosPipeline(userID string) pipeline.Pipeline {
	return pipeline.New(&model.Like{}).
		Match("likes.liked_by = ? AND likes.subject_kind = ?", userID, model.SubjectVideo).
		Lookup(pipeline.Join{Table: "videos", As: "video", LocalField: "subject_id", ForeignField: "id"}).
		ReplaceRoot("video").
		Sort("created_at", pipeline.Desc)
}

func (r *viewRepository) LikedVideos(ctx context.Context, userID string) ([]*model.Video, error) {
	res := make([]*model.Video, 0)
	err := LikedVideosPipeline(userID).Scan(ctx, r.db, &res)
	return res, errors.Wrap(err, "liked videos")
}

type subscriberRow struct {
	model.Subscription
	SubscriberUsername string
	SubscriberEmail    string
	SubscriberAvatar   string
	SubscriberFullName string
}

func (r *viewRepository) Subscribers(ctx context.Context, channelID string) ([]*model.SubscriberView, error) {
	var rows []subscriberRow
	err := pipeline.New(&model.Subscription{}).
		Match("subscriptions.channel_id = ?", channelID).
		Sort("created_at", pipeline.Asc).
		Lookup(userJoin("subscriber", "subscriber_id", profileFields)).
		Scan(ctx, r.db, &rows)
	if err != nil {
		return nil, errors.Wrap(err, "subscribers")
	}
	res := make([]*model.SubscriberView, len(rows))
	for i, row := range rows {
		res[i] = &model.SubscriberView{
			ID:           row.ID,
			SubscriberID: row.SubscriberID,
			ChannelID:    row.ChannelID,
			CreatedAt:    row.CreatedAt,
			Subscriber: model.UserProfile{
				ID:       row.SubscriberID,
				Username: row.SubscriberUsername,
				Email:    row.SubscriberEmail,
				Avatar:   row.SubscriberAvatar,
				FullName: row.SubscriberFullName,
			},
		}
	}
	return res, nil
}

type channelRow struct {
	model.Subscription
	ChannelUsername string
	ChannelEmail    string
	ChannelAvatar   string
	ChannelFullName string
}

func (r *viewRepository) SubscribedChannels(ctx context.Context, subscriberID string) ([]*model.SubscribedChannelView, error) {
	var rows []channelRow
	err := pipeline.New(&model.Subscription{}).
		Match("subscriptions.subscriber_id = ?", subscriberID).
		Sort("created_at", pipeline.Asc).
		Lookup(userJoin("channel", "channel_id", profileFields)).
		Scan(ctx, r.db, &rows)
	if err != nil {
		return nil, errors.Wrap(err, "subscribed channels")
	}
	res := make([]*model.SubscribedChannelView, len(rows))
	for i, row := range rows {
		res[i] = &model.SubscribedChannelView{
			ID:           row.ID,
			SubscriberID: row.SubscriberID,
			ChannelID:    row.ChannelID,
			CreatedAt:    row.CreatedAt,
			Channel: model.UserProfile{
				ID:       row.ChannelID,
				Username: row.ChannelUsername,
				Email:    row.ChannelEmail,
				Avatar:   row.ChannelAvatar,
				FullName: row.ChannelFullName,
			},
		}
	}
	return res, nil
}

func (r *viewRepository) ChannelVideos(ctx context.Context, ownerID string) ([]model.VideoSummary, error) {
	res := make([]model.VideoSummary, 0)
	err := pipeline.New(&model.Video{}).
		Match("videos.owner_id = ?", ownerID).
		Sort("created_at", pipeline.Desc).
		Project(append(append([]string(nil), videoSummaryFields...), "is_published", "created_at")...).
		Scan(ctx, r.db, &res)
	return res, errors.Wrap(err, "channel videos")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
