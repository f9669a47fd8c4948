package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/streamhub/pkg/apperr"
)

// Response 统一响应结构
type Response struct {
	StatusCode int      `json:"status_code"`
	Data       any      `json:"data"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors,omitempty"`
}

// Success 200 + data
func Success(c *gin.Context, data any) {
	Message(c, http.StatusOK, data, "success")
}

// Created 201 + data
func Created(c *gin.Context, data any, msg string) {
	Message(c, http.StatusCreated, data, msg)
}

// Message 自定义状态码与提示
func Message(c *gin.Context, status int, data any, msg string) {
	c.JSON(status, Response{StatusCode: status, Data: data, Message: msg, Success: status < http.StatusBadRequest})
}

func BadRequest(c *gin.Context, msg string) {
	fail(c, http.StatusBadRequest, msg, nil)
}

func Unauthorized(c *gin.Context, msg string) {
	fail(c, http.StatusUnauthorized, msg, nil)
}

func TooManyRequests(c *gin.Context) {
	fail(c, http.StatusTooManyRequests, "too many requests", nil)
}

// InternalError 不向调用方暴露内部错误细节
func InternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	fail(c, http.StatusInternalServerError, "internal server error", nil)
}

// Error 按 apperr.Kind 渲染错误；5xx 记录到 gin.Context.Errors 供上报
func Error(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		InternalError(c, err)
		return
	}
	status := ae.Kind.StatusCode()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	fail(c, status, ae.Message, ae.Details)
}

func fail(c *gin.Context, status int, msg string, details []string) {
	c.AbortWithStatusJSON(status, Response{StatusCode: status, Data: nil, Message: msg, Success: false, Errors: details})
}
