package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorWrappingAndIs(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := DatabaseError(cause, "upsert node failed")

	assert.ErrorIs(t, err, cause)
	assert.True(t, stderrors.Is(err, &Error{Type: ErrorTypeDatabase}))
	assert.False(t, stderrors.Is(err, &Error{Type: ErrorTypeNetwork}))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDetailedString(t *testing.T) {
	err := ConfigError("github token missing").
		WithDetail("set GITHUB_TOKEN or run 'debugmaster config set-token'")

	rendered := err.DetailedString()
	assert.Contains(t, rendered, "[CRITICAL]")
	assert.Contains(t, rendered, "[CONFIG]")
	assert.Contains(t, rendered, "github token missing")
	assert.Contains(t, rendered, "set GITHUB_TOKEN")
}

func TestDetailedStringWithCause(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	err := NetworkError(cause, "fetch content \"src/app.ts\"")

	rendered := err.DetailedString()
	assert.Contains(t, rendered, "[HIGH]")
	assert.Contains(t, rendered, "[NETWORK]")
	assert.Contains(t, rendered, "Caused by: dial tcp: connection refused")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeDatabase, SeverityCritical, "x"))
}
