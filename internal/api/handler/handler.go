package handler

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/streamhub/internal/api/middleware"
	"github.com/d60-Lab/streamhub/internal/service"
	"github.com/d60-Lab/streamhub/pkg/objectid"
)

// Handler 聚合所有 HTTP 接口依赖的服务
type Handler struct {
	relService       service.RelationshipService
	videoService     service.VideoService
	commentService   service.CommentService
	tweetService     service.TweetService
	playlistService  service.PlaylistService
	dashboardService service.DashboardService
	userService      service.UserService
	uploadDir        string
}

// Services 构造 Handler 的依赖
type Services struct {
	Relationship service.RelationshipService
	Video        service.VideoService
	Comment      service.CommentService
	Tweet        service.TweetService
	Playlist     service.PlaylistService
	Dashboard    service.DashboardService
	User         service.UserService
}

// New uploadDir 为空时使用系统临时目录
func New(s Services, uploadDir string) *Handler {
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}
	return &Handler{
		relService:       s.Relationship,
		videoService:     s.Video,
		commentService:   s.Comment,
		tweetService:     s.Tweet,
		playlistService:  s.Playlist,
		dashboardService: s.Dashboard,
		userService:      s.User,
		uploadDir:        uploadDir,
	}
}

func userID(c *gin.Context) string { return middleware.UserID(c) }

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return page, limit
}

// saveUpload 把表单文件落到本地临时文件，上传后由存储层删除
func (h *Handler) saveUpload(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	name := fmt.Sprintf("%s%s", objectid.New(), filepath.Ext(fh.Filename))
	dst := filepath.Join(h.uploadDir, name)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", err
	}
	return dst, nil
}
