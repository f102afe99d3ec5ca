// pkg/driver/cdp/classify.go
package cdp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amagee/webdriver-components/api/schemas"
)

// statusError maps the status strings returned by injected scripts onto the
// failure taxonomy.
func statusError(status, selector string) error {
	var kind schemas.FailureKind
	switch status {
	case "error:stale":
		kind = schemas.FailureStaleReference
	case "error:notvisible":
		kind = schemas.FailureNotVisible
	case "error:notinteractable":
		kind = schemas.FailureNotInteractable
	default:
		return schemas.NewDriverError(schemas.FailureSession, selector,
			fmt.Errorf("unexpected script status %q", status))
	}
	return schemas.NewDriverError(kind, selector, nil)
}

// classifyCDPError turns raw DevTools protocol errors into classified driver
// failures. The protocol reports node-id invalidation and selector syntax
// problems only through error message text, so string matching is the
// interface we actually have.
func classifyCDPError(err error, selector string) error {
	var de *schemas.DriverError
	if errors.As(err, &de) {
		return err
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "Could not find node with given id"),
		strings.Contains(msg, "No node with given id found"),
		strings.Contains(msg, "Node with given id does not belong to the document"),
		strings.Contains(msg, "node is detached"):
		return schemas.NewDriverError(schemas.FailureStaleReference, selector, err)

	case strings.Contains(msg, "is not a valid selector"),
		strings.Contains(msg, "SyntaxError"):
		return schemas.NewDriverError(schemas.FailureInvalidSelector, selector, err)
	}
	return schemas.NewDriverError(schemas.FailureSession, selector, err)
}

// classifyRunError handles errors surfacing from chromedp.Run itself: already
// classified failures pass through, everything else (dead websocket, closed
// target, cancelled session) is a session failure. The caller's own context
// errors are left alone so deadline handling stays with the retry engine.
func (s *Session) classifyRunError(err error, selector string) error {
	var de *schemas.DriverError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return schemas.NewDriverError(schemas.FailureSession, selector, err)
}
