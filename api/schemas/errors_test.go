// api/schemas/errors_test.go
package schemas

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailureKindTransience(t *testing.T) {
	transient := []FailureKind{FailureNotFound, FailureNotVisible, FailureNotInteractable, FailureStaleReference}
	for _, k := range transient {
		assert.True(t, k.Transient(), k.String())
	}
	assert.False(t, FailureInvalidSelector.Transient())
	assert.False(t, FailureSession.Transient())
}

func TestKindOfUnwrapsThroughWrapping(t *testing.T) {
	base := NewDriverError(FailureStaleReference, "#row", errors.New("node is detached"))
	wrapped := fmt.Errorf("reading text: %w", base)

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, FailureStaleReference, kind)
	assert.True(t, IsTransient(wrapped))

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsTransient(errors.New("plain")))
}

func TestTimeoutErrorCarriesLastCause(t *testing.T) {
	last := NewDriverError(FailureNotVisible, "#modal", nil)
	te := &TimeoutError{Target: "dialog.confirm (#modal)", Elapsed: 5 * time.Second, Last: last}

	assert.ErrorIs(t, te, last)
	kind, ok := KindOf(te)
	require.True(t, ok)
	assert.Equal(t, FailureNotVisible, kind)
	assert.Contains(t, te.Error(), "dialog.confirm (#modal)")
}
