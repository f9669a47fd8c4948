package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/streamhub/config"
	"github.com/d60-Lab/streamhub/internal/api/handler"
	"github.com/d60-Lab/streamhub/internal/model"
	"github.com/d60-Lab/streamhub/internal/repository"
	"github.com/d60-Lab/streamhub/internal/service"
	"github.com/d60-Lab/streamhub/internal/testutil"
	"github.com/d60-Lab/streamhub/pkg/storage"
)

const secret = "test-secret"

type fakeMedia struct{ uploads int }

func (m *fakeMedia) Upload(_ context.Context, localPath string) (*storage.Asset, error) {
	m.uploads++
	id := "obj/" + localPath
	return &storage.Asset{URL: "https://cdn.example.com/" + id, PublicID: id, Duration: 7}, nil
}

func (m *fakeMedia) Delete(context.Context, string) error { return nil }

type env struct {
	router    *gin.Engine
	db        *gorm.DB
	media     *fakeMedia
	uploadDir string
}

type body struct {
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func newEnv(t *testing.T, mutate ...func(*config.Config)) *env {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.JWT.Secret = secret
	cfg.Tracing.ServiceName = "streamhub-test"
	for _, m := range mutate {
		m(cfg)
	}

	db := testutil.NewDB(t)
	views := repository.NewViewRepository(db)
	videos := repository.NewVideoRepository(db)
	likes := repository.NewLikeRepository(db)
	subs := repository.NewSubscriptionRepository(db)
	media := &fakeMedia{}
	dir := t.TempDir()

	h := handler.New(handler.Services{
		Relationship: service.NewRelationshipService(service.NewToggler(likes, subs, nil), views),
		Video:        service.NewVideoService(videos, views, media),
		Comment:      service.NewCommentService(repository.NewCommentRepository(db), views),
		Tweet:        service.NewTweetService(repository.NewTweetRepository(db), views),
		Playlist:     service.NewPlaylistService(repository.NewPlaylistRepository(db), videos, views),
		Dashboard:    service.NewDashboardService(videos, subs, likes, views),
		User:         service.NewUserService(repository.NewUserRepository(db)),
	}, dir)
	require.NoError(t, handler.RegisterValidators())
	return &env{router: NewRouter(cfg, h), db: db, media: media, uploadDir: dir}
}

func token(t *testing.T, key, userID string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"_id": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func (e *env) do(t *testing.T, method, path, userID string, payload any) (*httptest.ResponseRecorder, body) {
	t.Helper()
	var rdr *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, secret, userID))
	}
	return e.serve(t, req)
}

func (e *env) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, body) {
	t.Helper()
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	var b body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b), w.Body.String())
	return w, b
}

func TestHealthAndRequestID(t *testing.T) {
	e := newEnv(t)

	w, b := e.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, b.Success)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	w, _ = e.serve(t, req)
	assert.Equal(t, "rid-1", w.Header().Get("X-Request-ID"))
}

func TestAuthRequired(t *testing.T) {
	e := newEnv(t)
	u := testutil.SeedUser(t, e.db, "", "alice")
	v := testutil.SeedVideo(t, e.db, u.ID, "clip", 0)
	path := "/api/v1/videos/" + v.ID + "/like"

	w, b := e.do(t, http.MethodPost, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, b.Success)

	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "other-secret", u.ID))
	w, _ = e.serve(t, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodPost, path, nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token(t, secret, u.ID)})
	w, _ = e.serve(t, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestToggleVideoLike(t *testing.T) {
	e := newEnv(t)
	u := testutil.SeedUser(t, e.db, "", "alice")
	v := testutil.SeedVideo(t, e.db, u.ID, "clip", 0)
	path := "/api/v1/videos/" + v.ID + "/like"

	w, b := e.do(t, http.MethodPost, path, u.ID, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Video liked", b.Message)
	var like map[string]any
	require.NoError(t, json.Unmarshal(b.Data, &like))
	assert.Equal(t, u.ID, like["liked_by"])
	assert.Equal(t, map[string]any{"kind": "video", "id": v.ID}, like["subject"])

	w, b = e.do(t, http.MethodPost, path, u.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Video disliked", b.Message)
	assert.Equal(t, "null", string(b.Data))
	assert.Zero(t, testutil.Count(t, e.db, &model.Like{}, "liked_by = ?", u.ID))
}

func TestToggleLike_InvalidID(t *testing.T) {
	e := newEnv(t)
	u := testutil.SeedUser(t, e.db, "", "alice")

	w, _ := e.do(t, http.MethodPost, "/api/v1/comments/not-an-id/like", u.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionFlow(t *testing.T) {
	e := newEnv(t)
	alice := testutil.SeedUser(t, e.db, "", "alice")
	bob := testutil.SeedUser(t, e.db, "", "bob")

	w, b := e.do(t, http.MethodPost, "/api/v1/channels/"+bob.ID+"/subscription", alice.ID, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Subscribed successfully", b.Message)

	w, b = e.do(t, http.MethodGet, "/api/v1/channels/"+bob.ID+"/subscribers", bob.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var subs []model.SubscriberView
	require.NoError(t, json.Unmarshal(b.Data, &subs))
	require.Len(t, subs, 1)
	assert.Equal(t, "alice", subs[0].Subscriber.Username)

	// 只有频道本人可以查看
	w, _ = e.do(t, http.MethodGet, "/api/v1/channels/"+bob.ID+"/subscribers", alice.ID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, b = e.do(t, http.MethodGet, "/api/v1/users/"+alice.ID+"/subscriptions", alice.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var channels []model.SubscribedChannelView
	require.NoError(t, json.Unmarshal(b.Data, &channels))
	require.Len(t, channels, 1)
	assert.Equal(t, "bob", channels[0].Channel.Username)

	w, b = e.do(t, http.MethodPost, "/api/v1/channels/"+bob.ID+"/subscription", alice.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Unsubscribed successfully", b.Message)

	w, _ = e.do(t, http.MethodPost, "/api/v1/channels/bogus/subscription", alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentsPaging(t *testing.T) {
	e := newEnv(t)
	u := testutil.SeedUser(t, e.db, "", "alice")
	v := testutil.SeedVideo(t, e.db, u.ID, "clip", 0)
	base := time.Now().Add(-time.Hour)
	for i, c := range []string{"one", "two", "three"} {
		testutil.SeedComment(t, e.db, v.ID, u.ID, c, base.Add(time.Duration(i)*time.Minute))
	}

	w, b := e.do(t, http.MethodGet, "/api/v1/videos/"+v.ID+"/comments?page=1&limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page1 []model.CommentView
	require.NoError(t, json.Unmarshal(b.Data, &page1))
	require.Len(t, page1, 2)
	assert.Equal(t, "one", page1[0].Content)
	assert.Equal(t, "alice", page1[0].Owner.Username)

	_, b = e.do(t, http.MethodGet, "/api/v1/videos/"+v.ID+"/comments?page=2&limit=2", "", nil)
	var page2 []model.CommentView
	require.NoError(t, json.Unmarshal(b.Data, &page2))
	require.Len(t, page2, 1)
	assert.Equal(t, "three", page2[0].Content)

	w, _ = e.do(t, http.MethodPost, "/api/v1/videos/"+v.ID+"/comments", u.ID, map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = e.do(t, http.MethodPost, "/api/v1/videos/"+v.ID+"/comments", u.ID, map[string]string{"content": "four"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCommentOwnership(t *testing.T) {
	e := newEnv(t)
	alice := testutil.SeedUser(t, e.db, "", "alice")
	bob := testutil.SeedUser(t, e.db, "", "bob")
	v := testutil.SeedVideo(t, e.db, alice.ID, "clip", 0)
	c := testutil.SeedComment(t, e.db, v.ID, alice.ID, "mine", time.Now())

	w, _ := e.do(t, http.MethodPatch, "/api/v1/comments/"+c.ID, bob.ID, map[string]string{"content": "hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = e.do(t, http.MethodDelete, "/api/v1/comments/"+c.ID, bob.ID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, b := e.do(t, http.MethodPatch, "/api/v1/comments/"+c.ID, alice.ID, map[string]string{"content": "edited"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(b.Data), "edited")
}

func TestGetVideo(t *testing.T) {
	e := newEnv(t)
	u := testutil.SeedUser(t, e.db, "", "alice")
	v := testutil.SeedVideo(t, e.db, u.ID, "clip", 3)

	w, b := e.do(t, http.MethodGet, "/api/v1/videos/"+v.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var d model.VideoDetail
	require.NoError(t, json.Unmarshal(b.Data, &d))
	assert.Equal(t, int64(4), d.Views)
	assert.Equal(t, "alice", d.Owner.Username)

	w, _ = e.do(t, http.MethodGet, "/api/v1/videos/xyz", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = e.do(t, http.MethodGet, "/api/v1/videos/507f1f77bcf86cd799439011", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("payload of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestPublishVideo(t *testing.T) {
	e := newEnv(t)
	u := testutil.SeedUser(t, e.db, "", "alice")

	req := multipartRequest(t, "/api/v1/videos",
		map[string]string{"title": "My clip", "description": "about"},
		map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.PNG"})
	req.Header.Set("Authorization", "Bearer "+token(t, secret, u.ID))
	w, b := e.serve(t, req)
	require.Equal(t, http.StatusCreated, w.Code, b.Message)

	var v model.Video
	require.NoError(t, json.Unmarshal(b.Data, &v))
	assert.Equal(t, "My clip", v.Title)
	assert.Equal(t, u.ID, v.OwnerID)
	assert.True(t, v.IsPublished)
	assert.Equal(t, 7.0, v.Duration)
	assert.True(t, strings.HasSuffix(v.Thumbnail, ".PNG"))
	assert.Equal(t, 2, e.media.uploads)

	// 本地临时文件全部清理
	left, err := os.ReadDir(e.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestPublishVideo_MissingThumbnail(t *testing.T) {
	e := newEnv(t)
	u := testutil.SeedUser(t, e.db, "", "alice")

	req := multipartRequest(t, "/api/v1/videos",
		map[string]string{"title": "My clip", "description": "about"},
		map[string]string{"videoFile": "clip.mp4"})
	req.Header.Set("Authorization", "Bearer "+token(t, secret, u.ID))
	w, b := e.serve(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "thumbnail file is required", b.Message)
	assert.Zero(t, e.media.uploads)

	left, err := os.ReadDir(e.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestPlaylistRoutes(t *testing.T) {
	e := newEnv(t)
	u := testutil.SeedUser(t, e.db, "", "alice")
	v := testutil.SeedVideo(t, e.db, u.ID, "clip", 0)

	w, b := e.do(t, http.MethodPost, "/api/v1/playlists", u.ID, map[string]string{"name": "fav", "description": "best"})
	require.Equal(t, http.StatusCreated, w.Code)
	var p model.Playlist
	require.NoError(t, json.Unmarshal(b.Data, &p))

	w, _ = e.do(t, http.MethodPost, "/api/v1/playlists/"+p.ID+"/videos/"+v.ID, u.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, b = e.do(t, http.MethodGet, "/api/v1/playlists/"+p.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var d model.PlaylistDetail
	require.NoError(t, json.Unmarshal(b.Data, &d))
	require.Len(t, d.Videos, 1)
	assert.Equal(t, v.ID, d.Videos[0].ID)
	assert.Equal(t, "alice", d.Owner.Username)

	w, _ = e.do(t, http.MethodPatch, "/api/v1/playlists/"+p.ID, u.ID, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = e.do(t, http.MethodDelete, "/api/v1/playlists/"+p.ID, u.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = e.do(t, http.MethodGet, "/api/v1/playlists/"+p.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegister(t *testing.T) {
	e := newEnv(t)
	req := map[string]string{"username": "Alice", "email": "alice@example.com", "fullName": "Alice A", "password": "secret123"}

	w, b := e.do(t, http.MethodPost, "/api/v1/accounts", "", req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, string(b.Data), "secret123")
	assert.Contains(t, string(b.Data), `"username":"alice"`)

	w, _ = e.do(t, http.MethodPost, "/api/v1/accounts", "", req)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = e.do(t, http.MethodPost, "/api/v1/accounts", "", map[string]string{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboard(t *testing.T) {
	e := newEnv(t)
	alice := testutil.SeedUser(t, e.db, "", "alice")
	bob := testutil.SeedUser(t, e.db, "", "bob")
	v := testutil.SeedVideo(t, e.db, alice.ID, "clip", 9)
	testutil.SeedLike(t, e.db, model.VideoSubject(v.ID), bob.ID, time.Now())
	testutil.SeedSubscription(t, e.db, bob.ID, alice.ID)

	w, b := e.do(t, http.MethodGet, "/api/v1/dashboard/stats", alice.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats model.ChannelStats
	require.NoError(t, json.Unmarshal(b.Data, &stats))
	assert.Equal(t, model.ChannelStats{TotalVideos: 1, TotalSubscribers: 1, TotalViews: 9, TotalLikes: 1}, stats)

	w, b = e.do(t, http.MethodGet, "/api/v1/me/liked-videos", bob.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var liked []model.Video
	require.NoError(t, json.Unmarshal(b.Data, &liked))
	require.Len(t, liked, 1)
	assert.Equal(t, v.ID, liked[0].ID)
}

func TestRateLimit(t *testing.T) {
	e := newEnv(t, func(c *config.Config) {
		c.RateLimit.RPS = 0.001
		c.RateLimit.Burst = 1
	})

	w, _ := e.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = e.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
