package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/streamhub/internal/model"
	"github.com/d60-Lab/streamhub/internal/pipeline"
	"github.com/d60-Lab/streamhub/internal/testutil"
)

func TestCommentFeed_PaginatesAndJoinsOwner(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	author := testutil.SeedUser(t, db, "", "author")
	viewer := testutil.SeedUser(t, db, "", "viewer")
	v := testutil.SeedVideo(t, db, author.ID, "talk", 0)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		testutil.SeedComment(t, db, v.ID, viewer.ID, "c", base.Add(time.Duration(i)*time.Second))
	}

	repo := NewViewRepository(db)
	page1, err := repo.CommentFeed(ctx, v.ID, 1, 2)
	require.NoError(t, err)
	page2, err := repo.CommentFeed(ctx, v.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.Len(t, page2, 1)
	assert.NotEqual(t, page1[0].ID, page2[0].ID)
	assert.NotEqual(t, page1[1].ID, page2[0].ID)

	owner := page1[0].Owner
	assert.Equal(t, viewer.ID, owner.ID)
	assert.Equal(t, "viewer", owner.Username)
	assert.Equal(t, viewer.Avatar, owner.Avatar)

	assert.Equal(t,
		[]pipeline.StageKind{pipeline.StageMatch, pipeline.StageSkip, pipeline.StageLimit, pipeline.StageLookup},
		CommentFeedPipeline(v.ID, 1, 2).Stages())
}

func TestCommentFeed_UnknownVideoIsEmpty(t *testing.T) {
	db := testutil.NewDB(t)
	list, err := NewViewRepository(db).CommentFeed(context.Background(), "507f1f77bcf86cd799439011", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTweetFeed_NewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.SeedUser(t, db, "", "tw")
	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	old := testutil.SeedTweet(t, db, u.ID, "old", base)
	fresh := testutil.SeedTweet(t, db, u.ID, "new", base.Add(time.Hour))

	list, err := NewViewRepository(db).TweetFeed(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, fresh.ID, list[0].ID)
	assert.Equal(t, old.ID, list[1].ID)
	assert.Equal(t, "tw", list[0].Owner.Username)
}

func TestVideoFeed_FiltersSortsAndPages(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	a := testutil.SeedUser(t, db, "", "a")
	b := testutil.SeedUser(t, db, "", "b")
	testutil.SeedVideo(t, db, a.ID, "Go Basics", 5)
	testutil.SeedVideo(t, db, a.ID, "Advanced go", 50)
	testutil.SeedVideo(t, db, a.ID, "Rust", 500)
	testutil.SeedVideo(t, db, b.ID, "go 100%", 7)
	testutil.SeedVideo(t, db, b.ID, "go 100x", 8)

	repo := NewViewRepository(db)

	list, err := repo.VideoFeed(ctx, VideoQuery{Query: "GO", UserID: a.ID, SortBy: "views", SortType: "desc"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Advanced go", list[0].Title)
	assert.Equal(t, "Go Basics", list[1].Title)

	// 通配符按字面匹配
	list, err = repo.VideoFeed(ctx, VideoQuery{Query: "100%"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "go 100%", list[0].Title)

	list, err = repo.VideoFeed(ctx, VideoQuery{SortBy: "views", SortType: "asc", Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(8), list[0].Views)
	assert.Equal(t, int64(50), list[1].Views)

	// 未知排序字段不影响结果
	list, err = repo.VideoFeed(ctx, VideoQuery{SortBy: "nonexistent", Limit: 100})
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

func TestVideoDetail_NotFound(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := NewViewRepository(db).VideoDetail(context.Background(), "507f1f77bcf86cd799439011")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPlaylistDetail_RestrictsFields(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "", "curator")
	v1 := testutil.SeedVideo(t, db, owner.ID, "one", 3)
	v2 := testutil.SeedVideo(t, db, owner.ID, "two", 4)
	pl := &model.Playlist{ID: "65a000000000000000000001", Name: "mix", Description: "d", OwnerID: owner.ID}
	require.NoError(t, db.Create(pl).Error)

	plRepo := NewPlaylistRepository(db)
	require.NoError(t, plRepo.AddVideo(ctx, pl.ID, v1.ID))
	require.NoError(t, plRepo.AddVideo(ctx, pl.ID, v2.ID))
	require.NoError(t, plRepo.AddVideo(ctx, pl.ID, v1.ID))

	d, err := NewViewRepository(db).PlaylistDetail(ctx, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, "mix", d.Name)
	assert.Equal(t, model.UserProfile{
		ID: owner.ID, Username: "curator", Email: owner.Email, Avatar: owner.Avatar, FullName: owner.FullName,
	}, d.Owner)
	require.Len(t, d.Videos, 2)

	raw, err := json.Marshal(d.Videos[0])
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, k := range []string{"video_file", "thumbnail", "title", "description", "duration", "views", "owner_id"} {
		assert.Contains(t, fields, k)
	}
	assert.NotContains(t, fields, "is_published")
	assert.NotContains(t, fields, "video_public_id")

	raw, err = json.Marshal(d.Owner)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
}

func TestLikedVideos_OnlyVideoLikesOfActor(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.SeedUser(t, db, "", "fan")
	other := testutil.SeedUser(t, db, "", "other")
	v1 := testutil.SeedVideo(t, db, other.ID, "v1", 0)
	v2 := testutil.SeedVideo(t, db, other.ID, "v2", 0)
	tw := testutil.SeedTweet(t, db, other.ID, "t", time.Now())
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	testutil.SeedLike(t, db, model.VideoSubject(v1.ID), u.ID, at)
	testutil.SeedLike(t, db, model.VideoSubject(v2.ID), u.ID, at.Add(time.Second))
	testutil.SeedLike(t, db, model.TweetSubject(tw.ID), u.ID, at.Add(2*time.Second))
	testutil.SeedLike(t, db, model.VideoSubject(v1.ID), other.ID, at)

	list, err := NewViewRepository(db).LikedVideos(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, v2.ID, list[0].ID)
	assert.Equal(t, v1.ID, list[1].ID)
}

func TestSubscribersAndSubscribedChannels(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	ch := testutil.SeedUser(t, db, "", "channel")
	s1 := testutil.SeedUser(t, db, "", "s1")
	s2 := testutil.SeedUser(t, db, "", "s2")
	testutil.SeedSubscription(t, db, s1.ID, ch.ID)
	testutil.SeedSubscription(t, db, s2.ID, ch.ID)
	testutil.SeedSubscription(t, db, s1.ID, s2.ID)

	repo := NewViewRepository(db)
	subs, err := repo.Subscribers(ctx, ch.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	names := []string{subs[0].Subscriber.Username, subs[1].Subscriber.Username}
	assert.ElementsMatch(t, []string{"s1", "s2"}, names)

	chans, err := repo.SubscribedChannels(ctx, s1.ID)
	require.NoError(t, err)
	require.Len(t, chans, 2)
	assert.ElementsMatch(t, []string{"channel", "s2"}, []string{chans[0].Channel.Username, chans[1].Channel.Username})
	assert.Equal(t, ch.Email, func() string {
		for _, c := range chans {
			if c.ChannelID == ch.ID {
				return c.Channel.Email
			}
		}
		return ""
	}())
}

func TestChannelVideos_IncludesUnpublished(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.SeedUser(t, db, "", "creator")
	testutil.SeedVideo(t, db, u.ID, "live", 1)
	hidden := testutil.SeedVideo(t, db, u.ID, "draft", 0)
	require.NoError(t, db.Model(&model.Video{}).Where("id = ?", hidden.ID).Update("is_published", false).Error)

	list, err := NewViewRepository(db).ChannelVideos(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	published := map[string]bool{}
	for _, v := range list {
		require.NotNil(t, v.IsPublished)
		published[v.Title] = *v.IsPublished
	}
	assert.Equal(t, map[string]bool{"live": true, "draft": false}, published)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\ok`, escapeLike(`50% off_now \ok`))
}
