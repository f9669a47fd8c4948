package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/streamhub/pkg/apperr"
	"github.com/d60-Lab/streamhub/pkg/objectid"
)

// storeErr 把仓储错误翻译为业务错误：记录不存在 → NotFound，其余 → Persistence
func storeErr(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(notFoundMsg)
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Persistence(err, "storage operation failed")
}

func requireID(id, msg string) error {
	if !objectid.Valid(id) {
		return apperr.InvalidArgument(msg)
	}
	return nil
}
