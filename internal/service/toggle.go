package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/streamhub/internal/model"
	"github.com/d60-Lab/streamhub/internal/repository"
	"github.com/d60-Lab/streamhub/pkg/apperr"
	"github.com/d60-Lab/streamhub/pkg/lock"
	"github.com/d60-Lab/streamhub/pkg/logger"
	"github.com/d60-Lab/streamhub/pkg/objectid"
)

// ToggleKind 可切换的关系：点赞视频/评论/动态，订阅频道
type ToggleKind string

const (
	ToggleVideo   ToggleKind = "video"
	ToggleComment ToggleKind = "comment"
	ToggleTweet   ToggleKind = "tweet"
	ToggleChannel ToggleKind = "channel"
)

// ToggleState 切换后的状态
type ToggleState string

const (
	StateAdded   ToggleState = "added"
	StateRemoved ToggleState = "removed"
)

// ToggleResult added 时 Record 为新建（或并发下已存在）的记录，removed 时为 nil
type ToggleResult struct {
	State  ToggleState `json:"state"`
	Record any         `json:"record"`
}

// Toggler 关系切换引擎。
// 同一 (kind, actor, subject) 在锁内串行执行 查找→插入/删除；
// 唯一键冲突视为并发请求已完成插入，删除 0 行视为已被删除。
type Toggler struct {
	likes  repository.LikeRepository
	subs   repository.SubscriptionRepository
	locker lock.Locker
	tracer trace.Tracer
}

func NewToggler(likes repository.LikeRepository, subs repository.SubscriptionRepository, locker lock.Locker) *Toggler {
	if locker == nil {
		locker = lock.NewLocal()
	}
	return &Toggler{
		likes:  likes,
		subs:   subs,
		locker: locker,
		tracer: otel.Tracer("github.com/d60-Lab/streamhub/internal/service"),
	}
}

func (t *Toggler) Toggle(ctx context.Context, actorID string, kind ToggleKind, subjectID string) (res *ToggleResult, err error) {
	ctx, span := t.tracer.Start(ctx, "toggle", trace.WithAttributes(
		attribute.String("toggle.kind", string(kind)),
		attribute.String("toggle.subject", subjectID),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, apperr.KindOf(err).String())
		} else {
			span.SetAttributes(attribute.String("toggle.state", string(res.State)))
		}
		span.End()
	}()

	rel, err := t.relation(kind, actorID, subjectID)
	if err != nil {
		return nil, err
	}

	key := "toggle:" + string(kind) + ":" + actorID + ":" + subjectID
	unlock, err := t.locker.Acquire(ctx, key)
	if err != nil {
		return nil, apperr.Conflict("another request is updating this relation, retry later", err)
	}
	defer unlock()

	return toggle(ctx, rel)
}

func (t *Toggler) ToggleVideoLike(ctx context.Context, actorID, videoID string) (*ToggleResult, error) {
	return t.Toggle(ctx, actorID, ToggleVideo, videoID)
}

func (t *Toggler) ToggleCommentLike(ctx context.Context, actorID, commentID string) (*ToggleResult, error) {
	return t.Toggle(ctx, actorID, ToggleComment, commentID)
}

func (t *Toggler) ToggleTweetLike(ctx context.Context, actorID, tweetID string) (*ToggleResult, error) {
	return t.Toggle(ctx, actorID, ToggleTweet, tweetID)
}

func (t *Toggler) ToggleSubscription(ctx context.Context, actorID, channelID string) (*ToggleResult, error) {
	return t.Toggle(ctx, actorID, ToggleChannel, channelID)
}

func (t *Toggler) relation(kind ToggleKind, actorID, subjectID string) (relation, error) {
	var rel relation
	switch kind {
	case ToggleChannel:
		if !objectid.Valid(subjectID) {
			return nil, apperr.NotFound("channel not found")
		}
		rel = &subscriptionRelation{repo: t.subs, subscriberID: actorID, channelID: subjectID}
	case ToggleVideo, ToggleComment, ToggleTweet:
		if !objectid.Valid(subjectID) {
			return nil, apperr.InvalidArgument("invalid " + string(kind) + " id")
		}
		subject := model.Subject{Kind: model.SubjectKind(kind), ID: subjectID}
		rel = &likeRelation{repo: t.likes, subject: subject, actorID: actorID}
	default:
		return nil, apperr.InvalidArgument("unsupported toggle kind " + string(kind))
	}
	if !objectid.Valid(actorID) {
		return nil, apperr.InvalidArgument("invalid user")
	}
	return rel, nil
}

// relation 一种关系记录的存取
type relation interface {
	find(ctx context.Context) (record any, id string, err error)
	insert(ctx context.Context) (record any, created bool, err error)
	remove(ctx context.Context, id string) (bool, error)
}

func toggle(ctx context.Context, rel relation) (*ToggleResult, error) {
	_, id, err := rel.find(ctx)
	switch {
	case err == nil:
		removed, err := rel.remove(ctx, id)
		if err != nil {
			return nil, apperr.Persistence(err, "remove relation failed")
		}
		if !removed {
			logger.Debug("relation already removed", zap.String("id", id))
		}
		return &ToggleResult{State: StateRemoved}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, apperr.Persistence(err, "lookup relation failed")
	}

	record, created, err := rel.insert(ctx)
	if err != nil {
		return nil, apperr.Persistence(err, "create relation failed")
	}
	if !created {
		// 唯一键冲突：另一个请求刚刚插入，读回已存在的记录
		if record, _, err = rel.find(ctx); err != nil {
			return nil, storeErr(err, "relation not found")
		}
	}
	return &ToggleResult{State: StateAdded, Record: record}, nil
}

type likeRelation struct {
	repo    repository.LikeRepository
	subject model.Subject
	actorID string
}

func (r *likeRelation) find(ctx context.Context) (any, string, error) {
	l, err := r.repo.Find(ctx, r.subject, r.actorID)
	if err != nil {
		return nil, "", err
	}
	return l, l.ID, nil
}

func (r *likeRelation) insert(ctx context.Context) (any, bool, error) {
	l := model.NewLike(objectid.New(), r.subject, r.actorID)
	created, err := r.repo.Create(ctx, l)
	return l, created, err
}

func (r *likeRelation) remove(ctx context.Context, id string) (bool, error) {
	return r.repo.DeleteByID(ctx, id)
}

type subscriptionRelation struct {
	repo         repository.SubscriptionRepository
	subscriberID string
	channelID    string
}

func (r *subscriptionRelation) find(ctx context.Context) (any, string, error) {
	s, err := r.repo.Find(ctx, r.subscriberID, r.channelID)
	if err != nil {
		return nil, "", err
	}
	return s, s.ID, nil
}

func (r *subscriptionRelation) insert(ctx context.Context) (any, bool, error) {
	s := &model.Subscription{ID: objectid.New(), SubscriberID: r.subscriberID, ChannelID: r.channelID}
	created, err := r.repo.Create(ctx, s)
	return s, created, err
}

func (r *subscriptionRelation) remove(ctx context.Context, id string) (bool, error) {
	return r.repo.DeleteByID(ctx, id)
}
