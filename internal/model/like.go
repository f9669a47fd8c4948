package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// SubjectKind 点赞对象类型
type SubjectKind string

const (
	SubjectVideo   SubjectKind = "video"
	SubjectComment SubjectKind = "comment"
	SubjectTweet   SubjectKind = "tweet"
)

// Valid 只有三种内容可以被点赞
func (k SubjectKind) Valid() bool {
	switch k {
	case SubjectVideo, SubjectComment, SubjectTweet:
		return true
	}
	return false
}

// Subject 点赞对象：{kind, id}，恰好指向一种内容
type Subject struct {
	Kind SubjectKind `json:"kind"`
	ID   string      `json:"id"`
}

func VideoSubject(id string) Subject   { return Subject{Kind: SubjectVideo, ID: id} }
func CommentSubject(id string) Subject { return Subject{Kind: SubjectComment, ID: id} }
func TweetSubject(id string) Subject   { return Subject{Kind: SubjectTweet, ID: id} }

func (s Subject) String() string { return fmt.Sprintf("%s:%s", s.Kind, s.ID) }

// Like 点赞记录，记录存在即为“已点赞”
type Like struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(24)"`
	SubjectKind SubjectKind `json:"-" gorm:"type:varchar(16);not null;index:idx_like_subject;index:idx_like_actor_subject,unique"`
	SubjectID   string      `json:"-" gorm:"type:varchar(24);not null;index:idx_like_subject;index:idx_like_actor_subject,unique"`
	LikedBy     string      `json:"liked_by" gorm:"type:varchar(24);not null;index:idx_like_actor_subject,unique"`
	// 复合唯一键 idx_like_actor_subject = (subject_kind, subject_id, liked_by)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Like) TableName() string { return "likes" }

// NewLike 由 Subject 构造，保证 kind/id 成对出现
func NewLike(id string, subject Subject, likedBy string) *Like {
	return &Like{ID: id, SubjectKind: subject.Kind, SubjectID: subject.ID, LikedBy: likedBy}
}

// Subject 返回点赞对象
func (l *Like) Subject() Subject { return Subject{Kind: l.SubjectKind, ID: l.SubjectID} }

// MarshalJSON 输出 subject 变体而不是两个裸字段
func (l Like) MarshalJSON() ([]byte, error) {
	type alias Like
	return json.Marshal(struct {
		alias
		Subject Subject `json:"subject"`
	}{alias: alias(l), Subject: l.Subject()})
}
