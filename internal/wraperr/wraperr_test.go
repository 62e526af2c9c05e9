package wraperr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grammarkit/ebnfstudio/internal/wraperr"
)

func TestNew(t *testing.T) {
	err := wraperr.New("something broke")
	assert.EqualError(t, err, "something broke")
	assert.Nil(t, errors.Unwrap(err))
}

func TestNewf(t *testing.T) {
	err := wraperr.Newf("could not open %q", "grammar.ebnf")
	assert.EqualError(t, err, `could not open "grammar.ebnf"`)
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := wraperr.Wrap(cause, "write output")
	assert.EqualError(t, err, "write output: disk full")
	assert.ErrorIs(t, err, cause)
}

func TestWrapf(t *testing.T) {
	cause := errors.New("permission denied")
	err := wraperr.Wrapf(cause, "open %s", "out.g4")
	assert.EqualError(t, err, "open out.g4: permission denied")
	assert.ErrorIs(t, err, cause)
}
