package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/streamhub/internal/repository"
	"github.com/d60-Lab/streamhub/internal/service"
	"github.com/d60-Lab/streamhub/pkg/response"
)

// ListVideos 视频列表
// @Summary 分页查询视频
// @Tags 视频
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param query query string false "标题关键字"
// @Param sortBy query string false "排序字段" default(createdAt)
// @Param sortType query string false "asc | desc" default(desc)
// @Param userId query string false "作者ID"
// @Success 200 {object} response.Response{data=[]model.Video}
// @Router /api/v1/videos [get]
func (h *Handler) ListVideos(c *gin.Context) {
	page, limit := pageParams(c)
	list, err := h.videoService.List(c.Request.Context(), repository.VideoQuery{
		Page:     page,
		Limit:    limit,
		Query:    c.Query("query"),
		SortBy:   c.Query("sortBy"),
		SortType: c.Query("sortType"),
		UserID:   c.Query("userId"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, list, "Videos fetched successfully")
}

// PublishVideo 上传并发布视频
// @Summary 发布视频
// @Tags 视频
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "标题"
// @Param description formData string true "简介"
// @Param videoFile formData file true "视频文件"
// @Param thumbnail formData file true "封面"
// @Success 201 {object} response.Response{data=model.Video}
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /api/v1/videos [post]
func (h *Handler) PublishVideo(c *gin.Context) {
	videoPath, ok := h.formFile(c, "videoFile", "video file is required")
	if !ok {
		return
	}
	defer os.Remove(videoPath)
	thumbPath, ok := h.formFile(c, "thumbnail", "thumbnail file is required")
	if !ok {
		return
	}
	defer os.Remove(thumbPath)

	v, err := h.videoService.Publish(c.Request.Context(), userID(c), service.PublishInput{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		VideoPath:     videoPath,
		ThumbnailPath: thumbPath,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, v, "Video published successfully")
}

// GetVideo 视频详情（播放量 +1）
// @Summary 视频详情
// @Tags 视频
// @Produce json
// @Param video_id path string true "视频ID"
// @Success 200 {object} response.Response{data=model.VideoDetail}
// @Failure 404 {object} response.Response
// @Router /api/v1/videos/{video_id} [get]
func (h *Handler) GetVideo(c *gin.Context) {
	var uri videoURI
	if !bindURI(c, &uri, "invalid video id") {
		return
	}
	d, err := h.videoService.GetByID(c.Request.Context(), uri.VideoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, d, "Video fetched successfully")
}

// UpdateVideo 修改标题、简介，可选替换封面
// @Summary 更新视频
// @Tags 视频
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param video_id path string true "视频ID"
// @Param title formData string true "标题"
// @Param description formData string true "简介"
// @Param thumbnail formData file false "封面"
// @Success 200 {object} response.Response{data=model.Video}
// @Failure 403 {object} response.Response
// @Router /api/v1/videos/{video_id} [patch]
func (h *Handler) UpdateVideo(c *gin.Context) {
	var uri videoURI
	if !bindURI(c, &uri, "invalid video id") {
		return
	}
	in := service.VideoUpdate{Title: c.PostForm("title"), Description: c.PostForm("description")}
	if _, err := c.FormFile("thumbnail"); err == nil {
		path, ok := h.formFile(c, "thumbnail", "thumbnail file is required")
		if !ok {
			return
		}
		defer os.Remove(path)
		in.ThumbnailPath = path
	}
	v, err := h.videoService.Update(c.Request.Context(), userID(c), uri.VideoID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, v, "Video updated successfully")
}

// DeleteVideo 删除视频及其媒体文件
// @Summary 删除视频
// @Tags 视频
// @Produce json
// @Security BearerAuth
// @Param video_id path string true "视频ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/videos/{video_id} [delete]
func (h *Handler) DeleteVideo(c *gin.Context) {
	var uri videoURI
	if !bindURI(c, &uri, "invalid video id") {
		return
	}
	if err := h.videoService.Delete(c.Request.Context(), userID(c), uri.VideoID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, nil, "Video deleted successfully")
}

// TogglePublish 切换发布状态
// @Summary 切换发布状态
// @Tags 视频
// @Produce json
// @Security BearerAuth
// @Param video_id path string true "视频ID"
// @Success 200 {object} response.Response{data=model.Video}
// @Router /api/v1/videos/{video_id}/publish [patch]
func (h *Handler) TogglePublish(c *gin.Context) {
	var uri videoURI
	if !bindURI(c, &uri, "invalid video id") {
		return
	}
	v, err := h.videoService.TogglePublish(c.Request.Context(), userID(c), uri.VideoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, v, "Publish status toggled successfully")
}

func (h *Handler) formFile(c *gin.Context, field, missing string) (string, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		response.BadRequest(c, missing)
		return "", false
	}
	path, err := h.saveUpload(c, fh)
	if err != nil {
		response.InternalError(c, err)
		return "", false
	}
	return path, true
}
