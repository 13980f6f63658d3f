package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/goliatone/go-formflow/pkg/flow"
)

// viewEntry is one live page view: the flow behind a rendered form and the
// path the form posts to.
type viewEntry struct {
	path string
	flow flow.Submitter
}

// viewRegistry keeps flow instances between the GET that rendered a form
// and the POSTs that submit it. Unsubmitted views expire after ttl.
type viewRegistry struct {
	cache    *cache.Cache
	onChange func(int)
}

func newViewRegistry(ttl time.Duration, onChange func(int)) *viewRegistry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	r := &viewRegistry{
		cache:    cache.New(ttl, ttl),
		onChange: onChange,
	}
	r.cache.OnEvicted(func(string, any) {
		r.report()
	})
	return r
}

// Put registers f for path and returns its page-view token.
func (r *viewRegistry) Put(path string, f flow.Submitter) string {
	token := uuid.NewString()
	r.cache.SetDefault(token, viewEntry{path: path, flow: f})
	r.report()
	return token
}

// Get resolves a token. A token issued for another path does not match.
func (r *viewRegistry) Get(token, path string) (flow.Submitter, bool) {
	if token == "" {
		return nil, false
	}
	value, ok := r.cache.Get(token)
	if !ok {
		return nil, false
	}
	entry, ok := value.(viewEntry)
	if !ok || entry.path != path {
		return nil, false
	}
	return entry.flow, true
}

func (r *viewRegistry) Delete(token string) {
	r.cache.Delete(token)
}

func (r *viewRegistry) Len() int {
	return r.cache.ItemCount()
}

func (r *viewRegistry) report() {
	if r.onChange != nil {
		r.onChange(r.cache.ItemCount())
	}
}
