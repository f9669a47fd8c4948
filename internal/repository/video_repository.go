package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/d60-Lab/streamhub/internal/model"
)

// VideoRepository 视频仓储接口
type VideoRepository interface {
	// Create 创建视频
	Create(ctx context.Context, v *model.Video) error

	// GetByID 不存在时返回 gorm.ErrRecordNotFound
	GetByID(ctx context.Context, id string) (*model.Video, error)

	// Update 只更新给定列
	Update(ctx context.Context, id string, fields map[string]any) error

	// IncrementViews 原子自增播放量，返回是否命中
	IncrementViews(ctx context.Context, id string) (bool, error)

	Delete(ctx context.Context, id string) error

	// CountByOwner 频道视频数
	CountByOwner(ctx context.Context, ownerID string) (int64, error)

	// SumViewsByOwner 频道总播放量，无视频时为 0
	SumViewsByOwner(ctx context.Context, ownerID string) (int64, error)
}

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, v *model.Video) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(v).Error, "create video")
}

func (r *videoRepository) GetByID(ctx context.Context, id string) (*model.Video, error) {
	var v model.Video
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, errors.Wrap(err, "get video")
	}
	return &v, nil
}

func (r *videoRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return errors.Wrap(r.db.WithContext(ctx).
		Model(&model.Video{}).
		Where("id = ?", id).
		Updates(fields).Error, "update video")
}

func (r *videoRepository) IncrementViews(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "increment views")
	}
	return res.RowsAffected > 0, nil
}

func (r *videoRepository) Delete(ctx context.Context, id string) error {
	return errors.Wrap(r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Video{}).Error, "delete video")
}

func (r *videoRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Video{}).Where("owner_id = ?", ownerID).Count(&cnt).Error
	return cnt, errors.Wrap(err, "count videos")
}

func (r *videoRepository) SumViewsByOwner(ctx context.Context, ownerID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Video{}).
		Select("COALESCE(SUM(views), 0)").
		Where("owner_id = ?", ownerID).
		Scan(&total).Error
	return total, errors.Wrap(err, "sum views")
}
