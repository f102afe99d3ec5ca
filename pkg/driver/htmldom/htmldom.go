// pkg/driver/htmldom/htmldom.go

// Package htmldom implements the driver contract over an in-memory HTML
// document. Selectors are XPath expressions evaluated with htmlquery.
//
// It exists to exercise page objects without a browser: fixtures load via
// SetContent, tests mutate the document between accesses, and the driver
// reports the same classified failures a remote backend would (stale handles
// after a content swap, hidden or disabled targets, malformed selectors).
package htmldom

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/antchfx/htmlquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/amagee/webdriver-components/api/schemas"
)

// Driver holds one mutable document. All methods are mutex-guarded so a test
// may swap content from a timer while the engine polls.
type Driver struct {
	mu     sync.Mutex
	doc    *html.Node
	gen    uint64
	values map[*html.Node]string
	clicks []string
	logger *zap.Logger
}

// Option customizes a Driver.
type Option func(*Driver)

// WithLogger sets the logger used for query diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// New returns a driver with no document loaded; call SetContent first.
func New(opts ...Option) *Driver {
	d := &Driver{
		values: make(map[*html.Node]string),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetContent replaces the document. Every handle issued before the swap
// becomes stale: the generation counter is bumped and old handles fail with a
// stale-reference error, exactly as a rebuilt remote DOM would.
func (d *Driver) SetContent(src string) error {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return fmt.Errorf("parsing fixture content: %w", err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc = doc
	d.gen++
	d.values = make(map[*html.Node]string)
	d.logger.Debug("content replaced", zap.Uint64("generation", d.gen))
	return nil
}

// Clicks returns the descriptions of every element clicked so far, in order.
func (d *Driver) Clicks() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.clicks))
	copy(out, d.clicks)
	return out
}

type handle struct {
	node *html.Node
	gen  uint64
	desc string
}

func (h *handle) Description() string { return h.desc }

var _ schemas.Driver = (*Driver)(nil)

// Query implements schemas.Driver. A nil scope queries from the document
// root; a non-nil scope must be a live handle from this driver's current
// generation.
func (d *Driver) Query(ctx context.Context, scope schemas.ElementHandle, selector string) ([]schemas.ElementHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	root := d.doc
	if scope != nil {
		h, err := d.live(scope, selector)
		if err != nil {
			return nil, err
		}
		root = h.node
	}
	if root == nil {
		return nil, schemas.NewDriverError(schemas.FailureSession, selector, fmt.Errorf("no document loaded"))
	}

	nodes, err := htmlquery.QueryAll(root, selector)
	if err != nil {
		return nil, schemas.NewDriverError(schemas.FailureInvalidSelector, selector, err)
	}

	out := make([]schemas.ElementHandle, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &handle{node: n, gen: d.gen, desc: summarize(n)})
	}
	d.logger.Debug("query", zap.String("selector", selector), zap.Int("matches", len(out)))
	return out, nil
}

// ReadText implements schemas.Driver.
func (d *Driver) ReadText(ctx context.Context, eh schemas.ElementHandle) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	h, err := d.live(eh, "")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(htmlquery.InnerText(h.node)), nil
}

// ReadAttribute implements schemas.Driver.
func (d *Driver) ReadAttribute(ctx context.Context, eh schemas.ElementHandle, name string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	h, err := d.live(eh, "")
	if err != nil {
		return "", false, err
	}
	for _, a := range h.node.Attr {
		if a.Key == name {
			return a.Val, true, nil
		}
	}
	return "", false, nil
}

// ReadProperty implements schemas.Driver. The "value" property reflects prior
// SetText calls, falling back to the value attribute, which mirrors how a
// browser separates the live property from the markup default.
func (d *Driver) ReadProperty(ctx context.Context, eh schemas.ElementHandle, name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	h, err := d.live(eh, "")
	if err != nil {
		return "", err
	}
	if name == "value" {
		if v, ok := d.values[h.node]; ok {
			return v, nil
		}
	}
	for _, a := range h.node.Attr {
		if a.Key == name {
			return a.Val, nil
		}
	}
	return "", nil
}

// Click implements schemas.Driver. The click is recorded and observable via
// Clicks; hidden or disabled targets fail with the matching transient kind.
func (d *Driver) Click(ctx context.Context, eh schemas.ElementHandle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	h, err := d.live(eh, "")
	if err != nil {
		return err
	}
	if err := d.actionable(h); err != nil {
		return err
	}
	d.clicks = append(d.clicks, h.desc)
	d.logger.Debug("click", zap.String("target", h.desc))
	return nil
}

// SetText implements schemas.Driver.
func (d *Driver) SetText(ctx context.Context, eh schemas.ElementHandle, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	h, err := d.live(eh, "")
	if err != nil {
		return err
	}
	if err := d.actionable(h); err != nil {
		return err
	}
	if hasAttr(h.node, "readonly") {
		return schemas.NewDriverError(schemas.FailureNotInteractable, h.desc, fmt.Errorf("element is readonly"))
	}
	d.values[h.node] = text
	return nil
}

// IsInteractable implements schemas.Driver.
func (d *Driver) IsInteractable(ctx context.Context, eh schemas.ElementHandle) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	h, err := d.live(eh, "")
	if err != nil {
		return false, err
	}
	return !hidden(h.node) && !disabled(h.node), nil
}

// live checks that a handle came from this driver and from the current
// document generation.
func (d *Driver) live(eh schemas.ElementHandle, selector string) (*handle, error) {
	h, ok := eh.(*handle)
	if !ok {
		return nil, schemas.NewDriverError(schemas.FailureSession, selector, fmt.Errorf("foreign handle %T", eh))
	}
	if h.gen != d.gen {
		return nil, schemas.NewDriverError(schemas.FailureStaleReference, h.desc,
			fmt.Errorf("handle from generation %d, document is at %d", h.gen, d.gen))
	}
	return h, nil
}

func (d *Driver) actionable(h *handle) error {
	if hidden(h.node) {
		return schemas.NewDriverError(schemas.FailureNotVisible, h.desc, fmt.Errorf("element or ancestor is hidden"))
	}
	if disabled(h.node) {
		return schemas.NewDriverError(schemas.FailureNotInteractable, h.desc, fmt.Errorf("element is disabled"))
	}
	return nil
}

// hidden walks the ancestor chain looking for the hidden attribute or an
// inline display:none.
func hidden(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if hasAttr(cur, "hidden") {
			return true
		}
		if style, ok := attr(cur, "style"); ok {
			s := strings.ReplaceAll(strings.ToLower(style), " ", "")
			if strings.Contains(s, "display:none") || strings.Contains(s, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}

func disabled(n *html.Node) bool {
	return hasAttr(n, "disabled")
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, name string) bool {
	_, ok := attr(n, name)
	return ok
}

// summarize builds a short element description for diagnostics and click
// records, e.g. `button#save` or `input[name="first_name"]`.
func summarize(n *html.Node) string {
	var sb strings.Builder
	sb.WriteString(n.Data)
	if id, ok := attr(n, "id"); ok && id != "" {
		sb.WriteString("#" + id)
	} else if name, ok := attr(n, "name"); ok && name != "" {
		fmt.Fprintf(&sb, "[name=%q]", name)
	} else if cls, ok := attr(n, "class"); ok && cls != "" {
		sb.WriteString("." + strings.Join(strings.Fields(cls), "."))
	}
	return sb.String()
}
