// pkg/pageobject/driver_fake_test.go
package pageobject

// fakeDriver is a hand-written scriptable driver for exercising the retry
// engine without a DOM. Each method counts its calls and delegates to an
// optional hook; the zero value behaves like a page with one matching,
// readable, clickable element.

import (
	"context"
	"sync"
	"time"

	"github.com/amagee/webdriver-components/api/schemas"
)

type fakeHandle string

func (f fakeHandle) Description() string { return string(f) }

type fakeDriver struct {
	mu sync.Mutex

	queryCalls int
	clickCalls int
	textCalls  int

	onQuery   func(call int, scope schemas.ElementHandle, selector string) ([]schemas.ElementHandle, error)
	onClick   func(call int, h schemas.ElementHandle) error
	onText    func(call int, h schemas.ElementHandle) (string, error)
	onSetText func(call int, h schemas.ElementHandle, text string) error
}

var _ schemas.Driver = (*fakeDriver)(nil)

func (d *fakeDriver) Query(_ context.Context, scope schemas.ElementHandle, selector string) ([]schemas.ElementHandle, error) {
	d.mu.Lock()
	d.queryCalls++
	call := d.queryCalls
	fn := d.onQuery
	d.mu.Unlock()
	if fn != nil {
		return fn(call, scope, selector)
	}
	return []schemas.ElementHandle{fakeHandle(selector)}, nil
}

func (d *fakeDriver) ReadText(_ context.Context, h schemas.ElementHandle) (string, error) {
	d.mu.Lock()
	d.textCalls++
	call := d.textCalls
	fn := d.onText
	d.mu.Unlock()
	if fn != nil {
		return fn(call, h)
	}
	return "ok", nil
}

func (d *fakeDriver) ReadAttribute(_ context.Context, h schemas.ElementHandle, name string) (string, bool, error) {
	return "", false, nil
}

func (d *fakeDriver) ReadProperty(_ context.Context, h schemas.ElementHandle, name string) (string, error) {
	return "", nil
}

func (d *fakeDriver) Click(_ context.Context, h schemas.ElementHandle) error {
	d.mu.Lock()
	d.clickCalls++
	call := d.clickCalls
	fn := d.onClick
	d.mu.Unlock()
	if fn != nil {
		return fn(call, h)
	}
	return nil
}

func (d *fakeDriver) SetText(_ context.Context, h schemas.ElementHandle, text string) error {
	d.mu.Lock()
	fn := d.onSetText
	d.mu.Unlock()
	if fn != nil {
		return fn(0, h, text)
	}
	return nil
}

func (d *fakeDriver) IsInteractable(_ context.Context, h schemas.ElementHandle) (bool, error) {
	return true, nil
}

// fastPolicy keeps retry tests quick while still exercising multiple polls.
func fastPolicy() Policy {
	return Policy{Timeout: 250 * time.Millisecond, PollInterval: 5 * time.Millisecond}
}
