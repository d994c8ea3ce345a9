package core

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, NOERROR, Code(nil))
	assert.Equal(t, EINTERNAL, Code(errors.New("plain")))
	err := Error(EINVALID, "Invalid range")
	assert.Equal(t, EINVALID, Code(err))
	assert.Equal(t, "Invalid range", UserMessage(err))
}

func TestWrappedErrorKeepsChain(t *testing.T) {
	base := errors.New("disk gone")
	err := WrapError(base, EUNAVAILABLE, "store at %s unavailable", "/tmp/x")
	wrapped := fmt.Errorf("loading: %w", err)
	assert.True(t, errors.Is(wrapped, base))
	assert.Equal(t, EUNAVAILABLE, Code(wrapped))
	assert.Equal(t, "store at /tmp/x unavailable", UserMessage(wrapped))
	assert.Equal(t, "unavailable", UserMessage(WrapError(nil, EUNAVAILABLE, "%s", errorText(EUNAVAILABLE))))
	assert.Equal(t, "internal error", UserMessage(errors.New("plain")))
}

func TestUserError(t *testing.T) {
	var buf bytes.Buffer
	UserError(&buf, Error(EMISSING, "font not found: %s", "Foo"))
	assert.Equal(t, "[122] font not found: Foo\n", buf.String())
	buf.Reset()
	UserError(&buf, errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}
