package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/streamhub/config"
	"github.com/d60-Lab/streamhub/internal/api/handler"
	"github.com/d60-Lab/streamhub/internal/api/middleware"
	"github.com/d60-Lab/streamhub/pkg/monitor"

	_ "github.com/d60-Lab/streamhub/docs"
)

// NewRouter 注册中间件与全部路由
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		monitor.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		monitor.ReportErrors(),
		otelgin.Middleware(cfg.Tracing.ServiceName),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware(),
	)

	r.GET("/health", h.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.POST("/accounts", h.Register)
	v1.GET("/videos", h.ListVideos)
	v1.GET("/videos/:video_id", h.GetVideo)
	v1.GET("/videos/:video_id/comments", h.ListComments)
	v1.GET("/users/:user_id/tweets", h.ListUserTweets)
	v1.GET("/users/:user_id/playlists", h.ListUserPlaylists)
	v1.GET("/playlists/:playlist_id", h.GetPlaylist)

	auth := v1.Group("", middleware.Auth(cfg.JWT.Secret))
	{
		auth.POST("/videos", h.PublishVideo)
		auth.PATCH("/videos/:video_id", h.UpdateVideo)
		auth.DELETE("/videos/:video_id", h.DeleteVideo)
		auth.PATCH("/videos/:video_id/publish", h.TogglePublish)
		auth.POST("/videos/:video_id/comments", h.AddComment)
		auth.POST("/videos/:video_id/like", h.ToggleVideoLike)

		auth.PATCH("/comments/:comment_id", h.UpdateComment)
		auth.DELETE("/comments/:comment_id", h.DeleteComment)
		auth.POST("/comments/:comment_id/like", h.ToggleCommentLike)

		auth.POST("/tweets", h.CreateTweet)
		auth.PATCH("/tweets/:tweet_id", h.UpdateTweet)
		auth.DELETE("/tweets/:tweet_id", h.DeleteTweet)
		auth.POST("/tweets/:tweet_id/like", h.ToggleTweetLike)

		auth.POST("/channels/:channel_id/subscription", h.ToggleSubscription)
		auth.GET("/channels/:channel_id/subscribers", h.ListSubscribers)
		auth.GET("/users/:user_id/subscriptions", h.ListSubscribedChannels)

		auth.POST("/playlists", h.CreatePlaylist)
		auth.PATCH("/playlists/:playlist_id", h.UpdatePlaylist)
		auth.DELETE("/playlists/:playlist_id", h.DeletePlaylist)
		auth.POST("/playlists/:playlist_id/videos/:video_id", h.AddPlaylistVideo)
		auth.DELETE("/playlists/:playlist_id/videos/:video_id", h.RemovePlaylistVideo)

		auth.GET("/dashboard/stats", h.ChannelStats)
		auth.GET("/dashboard/videos", h.ChannelVideos)
		auth.GET("/me/liked-videos", h.ListLikedVideos)
		auth.GET("/me/profile", h.Profile)
	}
	return r
}
