package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/streamhub/internal/service"
	"github.com/d60-Lab/streamhub/pkg/response"
)

// toggled added 返回 201 + 记录，removed 返回 200 + null
func toggled(c *gin.Context, res *service.ToggleResult, addedMsg, removedMsg string) {
	if res.State == service.StateAdded {
		response.Created(c, res.Record, addedMsg)
		return
	}
	response.Message(c, http.StatusOK, nil, removedMsg)
}

// ToggleVideoLike 点赞/取消点赞视频
// @Summary 切换视频点赞
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param video_id path string true "视频ID"
// @Success 201 {object} response.Response{data=model.Like}
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/videos/{video_id}/like [post]
func (h *Handler) ToggleVideoLike(c *gin.Context) {
	res, err := h.relService.ToggleVideoLike(c.Request.Context(), userID(c), c.Param("video_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	toggled(c, res, "Video liked", "Video disliked")
}

// ToggleCommentLike 点赞/取消点赞评论
// @Summary 切换评论点赞
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param comment_id path string true "评论ID"
// @Success 201 {object} response.Response{data=model.Like}
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/comments/{comment_id}/like [post]
func (h *Handler) ToggleCommentLike(c *gin.Context) {
	res, err := h.relService.ToggleCommentLike(c.Request.Context(), userID(c), c.Param("comment_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	toggled(c, res, "Comment liked", "Comment disliked")
}

// ToggleTweetLike 点赞/取消点赞动态
// @Summary 切换动态点赞
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param tweet_id path string true "动态ID"
// @Success 201 {object} response.Response{data=model.Like}
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/tweets/{tweet_id}/like [post]
func (h *Handler) ToggleTweetLike(c *gin.Context) {
	res, err := h.relService.ToggleTweetLike(c.Request.Context(), userID(c), c.Param("tweet_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	toggled(c, res, "Tweet liked", "Tweet disliked")
}

// ToggleSubscription 订阅/取消订阅频道
// @Summary 切换频道订阅
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param channel_id path string true "频道（用户）ID"
// @Success 201 {object} response.Response{data=model.Subscription}
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/channels/{channel_id}/subscription [post]
func (h *Handler) ToggleSubscription(c *gin.Context) {
	res, err := h.relService.ToggleSubscription(c.Request.Context(), userID(c), c.Param("channel_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	toggled(c, res, "Subscribed successfully", "Unsubscribed successfully")
}

// ListSubscribers 查询频道的订阅者
// @Summary 查询订阅者列表
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param channel_id path string true "频道ID"
// @Success 200 {object} response.Response{data=[]model.SubscriberView}
// @Failure 403 {object} response.Response
// @Router /api/v1/channels/{channel_id}/subscribers [get]
func (h *Handler) ListSubscribers(c *gin.Context) {
	list, err := h.relService.Subscribers(c.Request.Context(), userID(c), c.Param("channel_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, list, "Subscribers fetched successfully")
}

// ListSubscribedChannels 查询用户订阅的频道
// @Summary 查询订阅列表
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=[]model.SubscribedChannelView}
// @Failure 403 {object} response.Response
// @Router /api/v1/users/{user_id}/subscriptions [get]
func (h *Handler) ListSubscribedChannels(c *gin.Context) {
	list, err := h.relService.SubscribedChannels(c.Request.Context(), userID(c), c.Param("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, list, "Subscribed channels fetched successfully")
}

// ListLikedVideos 当前用户点赞过的视频
// @Summary 查询点赞视频
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.Video}
// @Router /api/v1/me/liked-videos [get]
func (h *Handler) ListLikedVideos(c *gin.Context) {
	list, err := h.relService.LikedVideos(c.Request.Context(), userID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, list, "Liked videos fetched successfully")
}
