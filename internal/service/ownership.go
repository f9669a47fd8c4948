package service

import "github.com/d60-Lab/streamhub/pkg/apperr"

// Owned 有所有者的实体（评论、动态、播放列表、视频）
type Owned interface {
	OwnedBy() string
}

// AssertOwner 只有所有者可以修改或删除；在任何写操作之前调用
func AssertOwner(entity Owned, requesterID string) error {
	if entity.OwnedBy() != requesterID {
		return apperr.Forbidden("you are not the owner of this resource")
	}
	return nil
}
