// Package monitor reports panics and server errors to Sentry.
package monitor

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/streamhub/config"
)

// Init DSN 为空时不启用；返回的 flush 在退出前调用
func Init(cfg config.SentryConfig) (flush func(), err error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		AttachStacktrace: true,
	}); err != nil {
		return nil, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// Recovery 捕获 panic 并上报，之后交给 gin 的 Recovery 返回 500
func Recovery() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{Repanic: true})
}

// ReportErrors 把 5xx 响应记录在 c.Errors 中的错误上报
func ReportErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Writer.Status() < http.StatusInternalServerError || len(c.Errors) == 0 {
			return
		}
		hub := sentrygin.GetHubFromContext(c)
		if hub == nil {
			hub = sentry.CurrentHub().Clone()
		}
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("path", c.FullPath())
			if rid, ok := c.Get("request_id"); ok {
				scope.SetTag("request_id", rid.(string))
			}
			for _, e := range c.Errors {
				hub.CaptureException(e.Err)
			}
		})
	}
}
