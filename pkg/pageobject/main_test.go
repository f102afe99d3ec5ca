// pkg/pageobject/main_test.go
package pageobject

import (
	"testing"

	"go.uber.org/goleak"
)

// The retry engine must never leave pollers behind: the only suspension point
// is a context-aware sleep on the calling goroutine.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
