package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/streamhub/internal/service"
	"github.com/d60-Lab/streamhub/pkg/response"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullName" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register 注册账号
// @Summary 注册
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 201 {object} response.Response{data=model.User}
// @Failure 409 {object} response.Response
// @Router /api/v1/accounts [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.userService.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, u, "User registered successfully")
}

// Profile 当前用户
// @Summary 当前用户信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.User}
// @Router /api/v1/me/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	u, err := h.userService.Profile(c.Request.Context(), userID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, u, "User fetched successfully")
}

// ChannelStats 频道统计
// @Summary 频道统计
// @Tags 看板
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.ChannelStats}
// @Router /api/v1/dashboard/stats [get]
func (h *Handler) ChannelStats(c *gin.Context) {
	stats, err := h.dashboardService.ChannelStats(c.Request.Context(), userID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, stats, "Channel stats fetched successfully")
}

// ChannelVideos 频道全部视频（含未发布）
// @Summary 频道视频
// @Tags 看板
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.VideoSummary}
// @Router /api/v1/dashboard/videos [get]
func (h *Handler) ChannelVideos(c *gin.Context) {
	list, err := h.dashboardService.ChannelVideos(c.Request.Context(), userID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, list, "Channel videos fetched successfully")
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
