package apperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf_WrappedChain(t *testing.T) {
	base := Forbidden("not yours")
	wrapped := errors.Wrap(fmt.Errorf("outer: %w", base), "handler")

	assert.Equal(t, KindForbidden, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindForbidden))
	assert.False(t, Is(nil, KindForbidden))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestStatusCodes(t *testing.T) {
	cases := map[Kind]int{
		KindInvalidArgument: http.StatusBadRequest,
		KindUnauthorized:    http.StatusUnauthorized,
		KindForbidden:       http.StatusForbidden,
		KindNotFound:        http.StatusNotFound,
		KindConflict:        http.StatusConflict,
		KindPersistence:     http.StatusInternalServerError,
		KindUpstream:        http.StatusBadGateway,
		KindInternal:        http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.StatusCode(), kind.String())
	}
}

func TestError_MessageIncludesCause(t *testing.T) {
	err := Persistence(errors.New("disk full"), "cannot save like")
	assert.Equal(t, "cannot save like: disk full", err.Error())
	assert.Equal(t, "cannot save like", NotFound("cannot save like").Error())
}
