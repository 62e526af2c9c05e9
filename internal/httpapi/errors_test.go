package httpapi_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grammarkit/ebnfstudio/internal/httpapi"
)

func TestErrorMessageFallsBackToFirstCause(t *testing.T) {
	err := httpapi.New("", httpapi.ErrNotFound)
	assert.Equal(t, httpapi.ErrNotFound.Error(), err.Error())
}

func TestErrorMessagePrefixesCauseWhenMsgGiven(t *testing.T) {
	err := httpapi.New("loading grammar", httpapi.ErrNotFound)
	assert.Equal(t, "loading grammar: "+httpapi.ErrNotFound.Error(), err.Error())
}

func TestErrorWithoutCauseUsesMsgAlone(t *testing.T) {
	err := httpapi.New("something went wrong")
	assert.Equal(t, "something went wrong", err.Error())
}

func TestErrorIsMatchesAnyCause(t *testing.T) {
	err := httpapi.New("bad input", httpapi.ErrBadArgument, httpapi.ErrBodyUnmarshal)
	assert.True(t, errors.Is(err, httpapi.ErrBadArgument))
	assert.True(t, errors.Is(err, httpapi.ErrBodyUnmarshal))
	assert.False(t, errors.Is(err, httpapi.ErrNotFound))
}

func TestWrapDBAlwaysMatchesErrDB(t *testing.T) {
	cause := errors.New("disk full")
	err := httpapi.WrapDB("writing record", cause)
	assert.True(t, errors.Is(err, httpapi.ErrDB))
	assert.True(t, errors.Is(err, cause))
}
