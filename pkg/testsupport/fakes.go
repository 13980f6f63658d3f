package testsupport

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/model"
)

// RecordingView is a flow.View that keeps every render and redirect.
type RecordingView struct {
	mu        sync.Mutex
	Pages     []flow.Page
	Redirects []string
	RenderErr error
}

// Render implements flow.View.
func (v *RecordingView) Render(_ context.Context, page flow.Page) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Pages = append(v.Pages, page)
	return v.RenderErr
}

// Redirect implements flow.View.
func (v *RecordingView) Redirect(_ context.Context, path string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Redirects = append(v.Redirects, path)
	return nil
}

// Last returns the most recent render.
func (v *RecordingView) Last() (flow.Page, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.Pages) == 0 {
		return flow.Page{}, false
	}
	return v.Pages[len(v.Pages)-1], true
}

// Renders returns the number of renders so far.
func (v *RecordingView) Renders() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.Pages)
}

// FakeCatalog is an in-memory stand-in for the furniture endpoints of the
// data API. Err, when set, rejects every call. Gate, when set, blocks
// CreateItem and EditItem until it is closed; Entered, when set, receives a
// value each time a write starts waiting on Gate.
type FakeCatalog struct {
	mu      sync.Mutex
	Items   map[string]model.Furniture
	Created []model.Furniture
	Edited  map[string]model.Furniture
	Err     error
	Gate    chan struct{}
	Entered chan struct{}
	nextID  int
}

// NewFakeCatalog returns a catalog seeded with items keyed by ID.
func NewFakeCatalog(items ...model.Furniture) *FakeCatalog {
	c := &FakeCatalog{
		Items:  make(map[string]model.Furniture, len(items)),
		Edited: make(map[string]model.Furniture),
	}
	for _, item := range items {
		c.Items[item.ID] = item
	}
	return c
}

func (c *FakeCatalog) wait(ctx context.Context) error {
	if c.Gate == nil {
		return nil
	}
	if c.Entered != nil {
		select {
		case c.Entered <- struct{}{}:
		default:
		}
	}
	select {
	case <-c.Gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CreateItem records item and assigns it an ID.
func (c *FakeCatalog) CreateItem(ctx context.Context, item model.Furniture) (model.Furniture, error) {
	if err := c.wait(ctx); err != nil {
		return model.Furniture{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return model.Furniture{}, c.Err
	}
	c.nextID++
	item.ID = fmt.Sprintf("item-%d", c.nextID)
	c.Items[item.ID] = item
	c.Created = append(c.Created, item)
	return item, nil
}

// EditItem replaces the item stored under id.
func (c *FakeCatalog) EditItem(ctx context.Context, id string, item model.Furniture) (model.Furniture, error) {
	if err := c.wait(ctx); err != nil {
		return model.Furniture{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return model.Furniture{}, c.Err
	}
	item.ID = id
	c.Items[id] = item
	c.Edited[id] = item
	return item, nil
}

// GetByID returns the stored item or an error naming the missing id.
func (c *FakeCatalog) GetByID(_ context.Context, id string) (model.Furniture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return model.Furniture{}, c.Err
	}
	item, ok := c.Items[id]
	if !ok {
		return model.Furniture{}, fmt.Errorf("item %q not found", id)
	}
	return item, nil
}

// ListItems returns every stored item.
func (c *FakeCatalog) ListItems(_ context.Context) ([]model.Furniture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	items := make([]model.Furniture, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, item)
	}
	return items, nil
}

// CreateCalls returns how many items were created.
func (c *FakeCatalog) CreateCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Created)
}

// FakeRegistrar stands in for the user registration endpoint.
type FakeRegistrar struct {
	mu    sync.Mutex
	Calls []model.User
	Err   error
}

// Register records the credentials and returns a user with a token.
func (r *FakeRegistrar) Register(_ context.Context, email, password string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, model.User{Email: email, Password: password})
	if r.Err != nil {
		return model.User{}, r.Err
	}
	return model.User{
		ID:          fmt.Sprintf("user-%d", len(r.Calls)),
		Email:       email,
		AccessToken: "token-" + email,
	}, nil
}
