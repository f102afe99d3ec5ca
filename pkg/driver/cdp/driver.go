// pkg/driver/cdp/driver.go
package cdp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/amagee/webdriver-components/api/schemas"
)

// nodeHandle wraps one CDP node id. Node ids are invalidated by the browser
// whenever the owning document changes, which is exactly the transience the
// engine's handles are allowed to have.
type nodeHandle struct {
	id       cdp.NodeID
	selector string
}

func (h *nodeHandle) Description() string {
	return fmt.Sprintf("node %d (%s)", int64(h.id), h.selector)
}

var _ schemas.Driver = (*Session)(nil)

// Query implements schemas.Driver using DOM.querySelectorAll scoped to the
// given root, or to a freshly fetched document root when scope is nil.
func (s *Session) Query(ctx context.Context, scope schemas.ElementHandle, selector string) ([]schemas.ElementHandle, error) {
	var out []schemas.ElementHandle
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		rootID, err := s.scopeNodeID(ctx, scope, selector)
		if err != nil {
			return err
		}
		ids, err := dom.QuerySelectorAll(rootID, selector).Do(ctx)
		if err != nil {
			return classifyCDPError(err, selector)
		}
		out = make([]schemas.ElementHandle, 0, len(ids))
		for _, id := range ids {
			out = append(out, &nodeHandle{id: id, selector: selector})
		}
		return nil
	}))
	if err != nil {
		return nil, s.classifyRunError(err, selector)
	}
	s.logger.Debug("query", zap.String("selector", selector), zap.Int("matches", len(out)))
	return out, nil
}

// ReadText implements schemas.Driver.
func (s *Session) ReadText(ctx context.Context, h schemas.ElementHandle) (string, error) {
	const fn = `function() {
		if (!this.isConnected) { return {s: "error:stale"}; }
		return {s: "done", v: this.innerText};
	}`
	return s.callOnHandle(ctx, h, fn)
}

// ReadAttribute implements schemas.Driver.
func (s *Session) ReadAttribute(ctx context.Context, eh schemas.ElementHandle, name string) (string, bool, error) {
	h, err := asNodeHandle(eh)
	if err != nil {
		return "", false, err
	}
	var (
		val   string
		found bool
	)
	err = s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		attrs, err := dom.GetAttributes(h.id).Do(ctx)
		if err != nil {
			return classifyCDPError(err, h.selector)
		}
		// GetAttributes returns a flat [name, value, ...] list.
		for i := 0; i+1 < len(attrs); i += 2 {
			if attrs[i] == name {
				val, found = attrs[i+1], true
				return nil
			}
		}
		return nil
	}))
	if err != nil {
		return "", false, s.classifyRunError(err, h.selector)
	}
	return val, found, nil
}

// ReadProperty implements schemas.Driver. Properties are stringified in the
// page so non-string values (numbers, booleans) come back in their JS string
// form.
func (s *Session) ReadProperty(ctx context.Context, h schemas.ElementHandle, name string) (string, error) {
	const fn = `function(name) {
		if (!this.isConnected) { return {s: "error:stale"}; }
		const v = this[name];
		return {s: "done", v: v === null || v === undefined ? "" : String(v)};
	}`
	return s.callOnHandle(ctx, h, fn, name)
}

// Click implements schemas.Driver. The actionability checks mirror what a
// user-facing click needs: attached, rendered, non-zero box, enabled.
func (s *Session) Click(ctx context.Context, h schemas.ElementHandle) error {
	const fn = `function() {
		if (!this.isConnected) { return {s: "error:stale"}; }
		const cs = window.getComputedStyle(this);
		if (cs.display === "none" || cs.visibility === "hidden") { return {s: "error:notvisible"}; }
		const r = this.getBoundingClientRect();
		if (r.width === 0 || r.height === 0) { return {s: "error:notvisible"}; }
		if (this.disabled === true) { return {s: "error:notinteractable"}; }
		this.scrollIntoView({block: "center", inline: "center"});
		this.click();
		return {s: "done"};
	}`
	_, err := s.callOnHandle(ctx, h, fn)
	return err
}

// SetText implements schemas.Driver. Form fields get their value replaced
// with input/change events dispatched so framework bindings observe the edit;
// contenteditable nodes get their text content replaced.
func (s *Session) SetText(ctx context.Context, h schemas.ElementHandle, text string) error {
	const fn = `function(text) {
		if (!this.isConnected) { return {s: "error:stale"}; }
		const cs = window.getComputedStyle(this);
		if (cs.display === "none" || cs.visibility === "hidden") { return {s: "error:notvisible"}; }
		if (this.disabled === true || this.readOnly === true) { return {s: "error:notinteractable"}; }
		if ("value" in this) {
			this.focus();
			this.value = text;
			this.dispatchEvent(new Event("input", {bubbles: true}));
			this.dispatchEvent(new Event("change", {bubbles: true}));
		} else if (this.isContentEditable) {
			this.textContent = text;
		} else {
			return {s: "error:notinteractable"};
		}
		return {s: "done"};
	}`
	_, err := s.callOnHandle(ctx, h, fn, text)
	return err
}

// IsInteractable implements schemas.Driver.
func (s *Session) IsInteractable(ctx context.Context, h schemas.ElementHandle) (bool, error) {
	const fn = `function() {
		if (!this.isConnected) { return {s: "error:stale"}; }
		const cs = window.getComputedStyle(this);
		if (cs.display === "none" || cs.visibility === "hidden") { return {s: "done", v: "false"}; }
		const r = this.getBoundingClientRect();
		if (r.width === 0 || r.height === 0) { return {s: "done", v: "false"}; }
		return {s: "done", v: this.disabled === true ? "false" : "true"};
	}`
	res, err := s.callOnHandle(ctx, h, fn)
	if err != nil {
		return false, err
	}
	return res == "true", nil
}

// scopeNodeID maps a scope handle to the node id queries run under; nil means
// the current document root, fetched fresh so a rebuilt document is never
// queried through a dead root.
func (s *Session) scopeNodeID(ctx context.Context, scope schemas.ElementHandle, selector string) (cdp.NodeID, error) {
	if scope == nil {
		root, err := dom.GetDocument().Do(ctx)
		if err != nil {
			return 0, classifyCDPError(err, selector)
		}
		return root.NodeID, nil
	}
	h, err := asNodeHandle(scope)
	if err != nil {
		return 0, err
	}
	return h.id, nil
}

// jsResult is the status envelope every injected function returns.
type jsResult struct {
	S string `json:"s"`
	V string `json:"v"`
}

// callOnHandle resolves the node to a remote object and invokes fn with
// `this` bound to the element. fn must return a jsResult envelope; its status
// string is mapped onto the failure taxonomy.
func (s *Session) callOnHandle(ctx context.Context, eh schemas.ElementHandle, fn string, args ...any) (string, error) {
	h, err := asNodeHandle(eh)
	if err != nil {
		return "", err
	}

	var res jsResult
	err = s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithNodeID(h.id).Do(ctx)
		if err != nil {
			return classifyCDPError(err, h.selector)
		}
		defer func() {
			// Release the remote object; failures here are harmless.
			_ = cdpruntime.ReleaseObject(obj.ObjectID).Do(ctx)
		}()

		callArgs := make([]*cdpruntime.CallArgument, 0, len(args))
		for _, a := range args {
			raw, err := json.Marshal(a)
			if err != nil {
				return fmt.Errorf("marshaling call argument: %w", err)
			}
			callArgs = append(callArgs, &cdpruntime.CallArgument{Value: raw})
		}

		call := cdpruntime.CallFunctionOn(fn).
			WithObjectID(obj.ObjectID).
			WithReturnByValue(true)
		if len(callArgs) > 0 {
			call = call.WithArguments(callArgs)
		}

		ret, exc, err := call.Do(ctx)
		if err != nil {
			return classifyCDPError(err, h.selector)
		}
		if exc != nil {
			return schemas.NewDriverError(schemas.FailureSession, h.selector,
				fmt.Errorf("script exception: %s", exc.Error()))
		}
		if ret == nil || ret.Value == nil {
			return schemas.NewDriverError(schemas.FailureSession, h.selector,
				fmt.Errorf("script returned no value"))
		}
		if err := json.Unmarshal(ret.Value, &res); err != nil {
			return schemas.NewDriverError(schemas.FailureSession, h.selector,
				fmt.Errorf("decoding script result: %w", err))
		}
		return nil
	}))
	if err != nil {
		return "", s.classifyRunError(err, h.selector)
	}
	if res.S != "done" {
		return "", statusError(res.S, h.selector)
	}
	return res.V, nil
}

func asNodeHandle(eh schemas.ElementHandle) (*nodeHandle, error) {
	h, ok := eh.(*nodeHandle)
	if !ok {
		return nil, schemas.NewDriverError(schemas.FailureSession, "",
			fmt.Errorf("foreign handle %T", eh))
	}
	return h, nil
}
