package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/streamhub/pkg/response"
)

type contentRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListComments 视频评论（新的在前）
// @Summary 分页查询评论
// @Tags 评论
// @Produce json
// @Param video_id path string true "视频ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=[]model.CommentView}
// @Router /api/v1/videos/{video_id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	var uri videoURI
	if !bindURI(c, &uri, "invalid video id") {
		return
	}
	page, limit := pageParams(c)
	list, err := h.commentService.ListByVideo(c.Request.Context(), uri.VideoID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, list, "Comments fetched successfully")
}

// AddComment 发表评论
// @Summary 发表评论
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param video_id path string true "视频ID"
// @Param request body contentRequest true "评论内容"
// @Success 201 {object} response.Response{data=model.Comment}
// @Router /api/v1/videos/{video_id}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	var uri videoURI
	if !bindURI(c, &uri, "invalid video id") {
		return
	}
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "content is required")
		return
	}
	cm, err := h.commentService.Add(c.Request.Context(), userID(c), uri.VideoID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cm, "Comment added successfully")
}

// UpdateComment 修改评论
// @Summary 修改评论
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param comment_id path string true "评论ID"
// @Param request body contentRequest true "评论内容"
// @Success 200 {object} response.Response{data=model.Comment}
// @Failure 403 {object} response.Response
// @Router /api/v1/comments/{comment_id} [patch]
func (h *Handler) UpdateComment(c *gin.Context) {
	var uri commentURI
	if !bindURI(c, &uri, "invalid comment id") {
		return
	}
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "content is required")
		return
	}
	cm, err := h.commentService.Update(c.Request.Context(), userID(c), uri.CommentID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, cm, "Comment updated successfully")
}

// DeleteComment 删除评论
// @Summary 删除评论
// @Tags 评论
// @Produce json
// @Security BearerAuth
// @Param comment_id path string true "评论ID"
// @Success 200 {object} response.Response
// @Router /api/v1/comments/{comment_id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	var uri commentURI
	if !bindURI(c, &uri, "invalid comment id") {
		return
	}
	if err := h.commentService.Delete(c.Request.Context(), userID(c), uri.CommentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, nil, "Comment deleted successfully")
}

// CreateTweet 发布动态
// @Summary 发布动态
// @Tags 动态
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body contentRequest true "动态内容"
// @Success 201 {object} response.Response{data=model.Tweet}
// @Router /api/v1/tweets [post]
func (h *Handler) CreateTweet(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "content is required")
		return
	}
	t, err := h.tweetService.Create(c.Request.Context(), userID(c), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, t, "Tweet created successfully")
}

// ListUserTweets 用户动态
// @Summary 查询用户动态
// @Tags 动态
// @Produce json
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=[]model.TweetView}
// @Router /api/v1/users/{user_id}/tweets [get]
func (h *Handler) ListUserTweets(c *gin.Context) {
	list, err := h.tweetService.ListByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, list, "Tweets fetched successfully")
}

// UpdateTweet 修改动态
// @Summary 修改动态
// @Tags 动态
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tweet_id path string true "动态ID"
// @Param request body contentRequest true "动态内容"
// @Success 200 {object} response.Response{data=model.Tweet}
// @Router /api/v1/tweets/{tweet_id} [patch]
func (h *Handler) UpdateTweet(c *gin.Context) {
	var uri tweetURI
	if !bindURI(c, &uri, "invalid tweet id") {
		return
	}
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "content is required")
		return
	}
	t, err := h.tweetService.Update(c.Request.Context(), userID(c), uri.TweetID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, t, "Tweet updated successfully")
}

// DeleteTweet 删除动态
// @Summary 删除动态
// @Tags 动态
// @Produce json
// @Security BearerAuth
// @Param tweet_id path string true "动态ID"
// @Success 200 {object} response.Response
// @Router /api/v1/tweets/{tweet_id} [delete]
func (h *Handler) DeleteTweet(c *gin.Context) {
	var uri tweetURI
	if !bindURI(c, &uri, "invalid tweet id") {
		return
	}
	if err := h.tweetService.Delete(c.Request.Context(), userID(c), uri.TweetID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, nil, "Tweet deleted successfully")
}
