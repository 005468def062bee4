package doclink_test

import (
	"testing"

	"github.com/fwojciec/doclink"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := doclink.Errorf(doclink.ENOTFOUND, "entry %q not found", "test")

	assert.Equal(t, doclink.ENOTFOUND, doclink.ErrorCode(err))
	assert.Equal(t, "entry \"test\" not found", doclink.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, doclink.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, doclink.EINTERNAL, doclink.ErrorCode(assert.AnError))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, doclink.ErrorMessage(nil))
}
