package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/streamhub/internal/service"
	"github.com/d60-Lab/streamhub/pkg/response"
)

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type playlistPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CreatePlaylist 创建播放列表
// @Summary 创建播放列表
// @Tags 播放列表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body playlistRequest true "名称与简介"
// @Success 201 {object} response.Response{data=model.Playlist}
// @Router /api/v1/playlists [post]
func (h *Handler) CreatePlaylist(c *gin.Context) {
	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.playlistService.Create(c.Request.Context(), userID(c), req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, p, "Playlist created successfully")
}

// GetPlaylist 播放列表详情
// @Summary 播放列表详情
// @Tags 播放列表
// @Produce json
// @Param playlist_id path string true "播放列表ID"
// @Success 200 {object} response.Response{data=model.PlaylistDetail}
// @Failure 404 {object} response.Response
// @Router /api/v1/playlists/{playlist_id} [get]
func (h *Handler) GetPlaylist(c *gin.Context) {
	var uri playlistURI
	if !bindURI(c, &uri, "invalid playlist id") {
		return
	}
	p, err := h.playlistService.Get(c.Request.Context(), uri.PlaylistID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, p, "Playlist fetched successfully")
}

// ListUserPlaylists 用户的播放列表
// @Summary 查询用户播放列表
// @Tags 播放列表
// @Produce json
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=[]model.Playlist}
// @Router /api/v1/users/{user_id}/playlists [get]
func (h *Handler) ListUserPlaylists(c *gin.Context) {
	list, err := h.playlistService.ListByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, list, "Playlists fetched successfully")
}

// AddPlaylistVideo 向播放列表添加视频
// @Summary 添加视频到播放列表
// @Tags 播放列表
// @Produce json
// @Security BearerAuth
// @Param playlist_id path string true "播放列表ID"
// @Param video_id path string true "视频ID"
// @Success 200 {object} response.Response{data=model.PlaylistDetail}
// @Router /api/v1/playlists/{playlist_id}/videos/{video_id} [post]
func (h *Handler) AddPlaylistVideo(c *gin.Context) {
	var uri playlistVideoURI
	if !bindURI(c, &uri, "invalid playlist or video id") {
		return
	}
	p, err := h.playlistService.AddVideo(c.Request.Context(), userID(c), uri.PlaylistID, uri.VideoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, p, "Video added to playlist successfully")
}

// RemovePlaylistVideo 从播放列表移除视频
// @Summary 从播放列表移除视频
// @Tags 播放列表
// @Produce json
// @Security BearerAuth
// @Param playlist_id path string true "播放列表ID"
// @Param video_id path string true "视频ID"
// @Success 200 {object} response.Response{data=model.PlaylistDetail}
// @Router /api/v1/playlists/{playlist_id}/videos/{video_id} [delete]
func (h *Handler) RemovePlaylistVideo(c *gin.Context) {
	var uri playlistVideoURI
	if !bindURI(c, &uri, "invalid playlist or video id") {
		return
	}
	p, err := h.playlistService.RemoveVideo(c.Request.Context(), userID(c), uri.PlaylistID, uri.VideoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, p, "Video removed from playlist successfully")
}

// UpdatePlaylist 修改名称或简介
// @Summary 更新播放列表
// @Tags 播放列表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param playlist_id path string true "播放列表ID"
// @Param request body playlistRequest true "名称与简介（至少一项）"
// @Success 200 {object} response.Response{data=model.Playlist}
// @Router /api/v1/playlists/{playlist_id} [patch]
func (h *Handler) UpdatePlaylist(c *gin.Context) {
	var uri playlistURI
	if !bindURI(c, &uri, "invalid playlist id") {
		return
	}
	var req playlistPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.playlistService.Update(c.Request.Context(), userID(c), uri.PlaylistID, service.PlaylistUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, p, "Playlist updated successfully")
}

// DeletePlaylist 删除播放列表
// @Summary 删除播放列表
// @Tags 播放列表
// @Produce json
// @Security BearerAuth
// @Param playlist_id path string true "播放列表ID"
// @Success 200 {object} response.Response
// @Router /api/v1/playlists/{playlist_id} [delete]
func (h *Handler) DeletePlaylist(c *gin.Context) {
	var uri playlistURI
	if !bindURI(c, &uri, "invalid playlist id") {
		return
	}
	if err := h.playlistService.Delete(c.Request.Context(), userID(c), uri.PlaylistID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, nil, "Playlist deleted successfully")
}
