package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/streamhub/internal/model"
)

type LikeRepository interface {
	// Find 不存在时返回 gorm.ErrRecordNotFound
	Find(ctx context.Context, subject model.Subject, likedBy string) (*model.Like, error)
	Create(ctx context.Context, l *model.Like) (bool, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	// CountOnOwnerVideos 某频道所有视频收到的点赞数
	CountOnOwnerVideos(ctx context.Context, ownerID string) (int64, error)
}

type likeRepository struct{ db *gorm.DB }

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Find(ctx context.Context, subject model.Subject, likedBy string) (*model.Like, error) {
	var l model.Like
	err := r.db.WithContext(ctx).
		Where("subject_kind = ? AND subject_id = ? AND liked_by = ?", subject.Kind, subject.ID, likedBy).
		First(&l).Error
	if err != nil {
		return nil, errors.Wrapf(err, "find like %s", subject)
	}
	return &l, nil
}

func (r *likeRepository) Create(ctx context.Context, l *model.Like) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(l)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "create like")
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Like{})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "delete like")
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) CountOnOwnerVideos(ctx context.Context, ownerID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Table("likes").
		Joins("INNER JOIN videos ON videos.id = likes.subject_id").
		Where("likes.subject_kind = ? AND videos.owner_id = ?", model.SubjectVideo, ownerID).
		Count(&cnt).Error
	if err != nil {
		return 0, errors.Wrap(err, "count likes")
	}
	return cnt, nil
}
