// pkg/driver/cdp/classify_test.go
package cdp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amagee/webdriver-components/api/schemas"
)

func kindOf(t *testing.T, err error) schemas.FailureKind {
	t.Helper()
	kind, ok := schemas.KindOf(err)
	require.True(t, ok, "expected a classified driver error, got %v", err)
	return kind
}

func TestStatusError(t *testing.T) {
	assert.Equal(t, schemas.FailureStaleReference, kindOf(t, statusError("error:stale", "#a")))
	assert.Equal(t, schemas.FailureNotVisible, kindOf(t, statusError("error:notvisible", "#a")))
	assert.Equal(t, schemas.FailureNotInteractable, kindOf(t, statusError("error:notinteractable", "#a")))

	// Anything the injected scripts never emit means the page and driver have
	// diverged, which is not retryable.
	err := statusError("error:wat", "#a")
	assert.Equal(t, schemas.FailureSession, kindOf(t, err))
	assert.False(t, schemas.IsTransient(err))
}

func TestClassifyCDPError(t *testing.T) {
	cases := []struct {
		msg  string
		want schemas.FailureKind
	}{
		{"Could not find node with given id (-32000)", schemas.FailureStaleReference},
		{"No node with given id found", schemas.FailureStaleReference},
		{"Node with given id does not belong to the document", schemas.FailureStaleReference},
		{"DOM.querySelectorAll: 'div[' is not a valid selector", schemas.FailureInvalidSelector},
		{"SyntaxError: Failed to execute 'querySelectorAll'", schemas.FailureInvalidSelector},
		{"websocket: close 1006 (abnormal closure)", schemas.FailureSession},
	}
	for _, tc := range cases {
		err := classifyCDPError(errors.New(tc.msg), "div")
		assert.Equal(t, tc.want, kindOf(t, err), "message %q", tc.msg)
	}
}

func TestClassifyCDPErrorPreservesClassified(t *testing.T) {
	orig := schemas.NewDriverError(schemas.FailureNotVisible, "#btn", nil)
	wrapped := fmt.Errorf("evaluating click: %w", orig)
	assert.Equal(t, wrapped, classifyCDPError(wrapped, "#btn"))
}

func TestClassifyRunError(t *testing.T) {
	s := &Session{}

	assert.ErrorIs(t, s.classifyRunError(context.Canceled, "#a"), context.Canceled)
	assert.ErrorIs(t, s.classifyRunError(context.DeadlineExceeded, "#a"), context.DeadlineExceeded)

	orig := schemas.NewDriverError(schemas.FailureStaleReference, "#a", nil)
	assert.Equal(t, orig, s.classifyRunError(orig, "#a"))

	err := s.classifyRunError(errors.New("target closed"), "#a")
	assert.Equal(t, schemas.FailureSession, kindOf(t, err))
}
