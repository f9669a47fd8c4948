// Package storage uploads media files to an S3-compatible object store (MinIO).
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/streamhub/config"
	"github.com/d60-Lab/streamhub/pkg/logger"
	"github.com/d60-Lab/streamhub/pkg/objectid"
)

// Asset 上传结果
type Asset struct {
	URL      string
	PublicID string
	Duration float64 // 秒；非音视频文件为 0
}

// ProbeFunc 返回 ffprobe 的 JSON 输出
type ProbeFunc func(file string) (string, error)

// Minio 媒体存储
type Minio struct {
	client  *minio.Client
	bucket  string
	baseURL string
	probe   ProbeFunc
}

// NewMinio 创建客户端并确保 bucket 存在
func NewMinio(ctx context.Context, cfg config.StorageConfig) (*Minio, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client")
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "check bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, "create bucket")
		}
	}
	return &Minio{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		probe:   func(file string) (string, error) { return ffmpeg.Probe(file) },
	}, nil
}

// Upload 上传本地文件；无论成功与否都会删除本地临时文件
func (m *Minio) Upload(ctx context.Context, localPath string) (*Asset, error) {
	defer func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			logger.Warn("remove temp file failed", zap.String("path", localPath), zap.Error(err))
		}
	}()

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(localPath); err == nil {
		contentType = mt.String()
	}

	var duration float64
	if isAV(contentType) && m.probe != nil {
		out, err := m.probe(localPath)
		if err != nil {
			logger.Warn("probe media failed", zap.String("path", localPath), zap.Error(err))
		} else {
			duration = ParseDuration(out)
		}
	}

	name := ObjectName(contentType, localPath, objectid.New())
	if _, err := m.client.FPutObject(ctx, m.bucket, name, localPath, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return nil, errors.Wrapf(err, "upload %s", name)
	}
	return &Asset{
		URL:      fmt.Sprintf("%s/%s/%s", m.baseURL, m.bucket, name),
		PublicID: name,
		Duration: duration,
	}, nil
}

// Delete 按 PublicID 删除对象
func (m *Minio) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	if err := m.client.RemoveObject(ctx, m.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrapf(err, "remove %s", publicID)
	}
	return nil
}

// ParseDuration 读取 ffprobe 输出中的 format.duration
func ParseDuration(probeJSON string) float64 {
	return gjson.Get(probeJSON, "format.duration").Float()
}

// ObjectName 按媒体类型分目录：video/ image/ 其余 raw/
func ObjectName(contentType, localPath, id string) string {
	dir := "raw"
	switch {
	case strings.HasPrefix(contentType, "video/"):
		dir = "video"
	case strings.HasPrefix(contentType, "image/"):
		dir = "image"
	}
	return path.Join(dir, id+strings.ToLower(filepath.Ext(localPath)))
}

func isAV(contentType string) bool {
	return strings.HasPrefix(contentType, "video/") || strings.HasPrefix(contentType, "audio/")
}
