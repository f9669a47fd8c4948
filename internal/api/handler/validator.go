package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/streamhub/pkg/objectid"
	"github.com/d60-Lab/streamhub/pkg/response"
)

// RegisterValidators 注册 objectid 校验标签
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return objectid.Valid(fl.Field().String())
	})
}

type videoURI struct {
	VideoID string `uri:"video_id" binding:"required,objectid"`
}

type commentURI struct {
	CommentID string `uri:"comment_id" binding:"required,objectid"`
}

type tweetURI struct {
	TweetID string `uri:"tweet_id" binding:"required,objectid"`
}

type playlistURI struct {
	PlaylistID string `uri:"playlist_id" binding:"required,objectid"`
}

type playlistVideoURI struct {
	PlaylistID string `uri:"playlist_id" binding:"required,objectid"`
	VideoID    string `uri:"video_id" binding:"required,objectid"`
}

// bindURI 失败时直接写 400
func bindURI(c *gin.Context, obj any, msg string) bool {
	if err := c.ShouldBindUri(obj); err != nil {
		response.BadRequest(c, msg)
		return false
	}
	return true
}
