package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/internal/server"
	"github.com/goliatone/go-formflow/pkg/api"
	"github.com/goliatone/go-formflow/pkg/forms"
	"github.com/goliatone/go-formflow/pkg/metrics"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/html"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/testsupport"
)

type backend struct {
	*testsupport.FakeCatalog
	*testsupport.FakeRegistrar

	mu      sync.Mutex
	tokens  []string
	logouts int
}

func (b *backend) CreateItem(ctx context.Context, item model.Furniture) (model.Furniture, error) {
	b.mu.Lock()
	b.tokens = append(b.tokens, api.AccessTokenFrom(ctx))
	b.mu.Unlock()
	return b.FakeCatalog.CreateItem(ctx, item)
}

func (b *backend) Logout(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logouts++
	return nil
}

type harness struct {
	handler  http.Handler
	backend  *backend
	sessions *session.MemoryStore
	registry *prometheus.Registry
}

func newHarness(t *testing.T, items ...model.Furniture) *harness {
	t.Helper()

	set, err := forms.Default()
	require.NoError(t, err)
	renderer, err := html.New()
	require.NoError(t, err)
	themes, err := render.DefaultThemes()
	require.NoError(t, err)

	h := &harness{
		backend: &backend{
			FakeCatalog:   testsupport.NewFakeCatalog(items...),
			FakeRegistrar: &testsupport.FakeRegistrar{},
		},
		sessions: session.NewMemoryStore(time.Hour),
		registry: prometheus.NewRegistry(),
	}
	srv, err := server.New(config.Defaults(), server.Deps{
		Backend:  h.backend,
		Forms:    set,
		Sessions: h.sessions,
		Renderer: renderer,
		Themes:   themes,
		Metrics:  metrics.New(metrics.WithRegistry(h.registry)),
		Gatherer: h.registry,
		Assets:   html.AssetsFS(),
	})
	require.NoError(t, err)
	h.handler = srv.Handler()
	return h
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *harness) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return h.do(req)
}

func (h *harness) post(path string, values map[string]string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return h.do(req)
}

var viewTokenPattern = regexp.MustCompile(`name="_view" value="([^"]+)"`)

func viewToken(t *testing.T, body string) string {
	t.Helper()
	match := viewTokenPattern.FindStringSubmatch(body)
	require.Len(t, match, 2, "no view token in page")
	return match[1]
}

func TestCreate_InvalidThenValidSubmission(t *testing.T) {
	h := newHarness(t)

	page := h.get("/create")
	require.Equal(t, http.StatusOK, page.Code)
	token := viewToken(t, page.Body.String())

	input := testsupport.With(testsupport.ValidFurnitureInput(), "make", "")
	input["_view"] = token
	invalid := h.post("/create", input)
	require.Equal(t, http.StatusOK, invalid.Code)
	assert.Contains(t, invalid.Body.String(), "Please fill all mandatory fields!")
	assert.Contains(t, invalid.Body.String(), `value="Oakwood"`)
	assert.Equal(t, token, viewToken(t, invalid.Body.String()))
	assert.Equal(t, 0, h.backend.CreateCalls())

	input = testsupport.ValidFurnitureInput()
	input["_view"] = token
	done := h.post("/create", input)
	require.Equal(t, http.StatusSeeOther, done.Code)
	assert.Equal(t, "/", done.Header().Get("Location"))
	assert.Equal(t, 1, h.backend.CreateCalls())
}

func TestCreate_UnknownTokenStartsFreshView(t *testing.T) {
	h := newHarness(t)

	input := testsupport.ValidFurnitureInput()
	input["_view"] = "expired"
	rec := h.post("/create", input)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, h.backend.CreateCalls())
}

func TestCreate_DuplicateSubmitConflicts(t *testing.T) {
	h := newHarness(t)
	h.backend.Gate = make(chan struct{})
	h.backend.Entered = make(chan struct{}, 1)

	token := viewToken(t, h.get("/create").Body.String())
	input := testsupport.ValidFurnitureInput()
	input["_view"] = token

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		first <- h.post("/create", input)
	}()
	<-h.backend.Entered

	second := h.post("/create", input)
	assert.Equal(t, http.StatusConflict, second.Code)

	close(h.backend.Gate)
	assert.Equal(t, http.StatusSeeOther, (<-first).Code)
	assert.Equal(t, 1, h.backend.CreateCalls())
}

func TestEdit_PrefillsAndSubmits(t *testing.T) {
	item := testsupport.ValidFurniture()
	item.ID = "abc"
	h := newHarness(t, item)

	page := h.get("/edit/abc")
	require.Equal(t, http.StatusOK, page.Code)
	body := page.Body.String()
	assert.Contains(t, body, `value="Oakwood"`)
	assert.Contains(t, body, `action="/edit/abc"`)

	input := testsupport.With(testsupport.ValidFurnitureInput(), "price", "199.5")
	input["_view"] = viewToken(t, body)
	rec := h.post("/edit/abc", input)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.InDelta(t, 199.5, h.backend.Edited["abc"].Price, 0.001)
}

func TestEdit_TokenFromAnotherItemIsNotReused(t *testing.T) {
	a := testsupport.ValidFurniture()
	a.ID = "a"
	b := testsupport.ValidFurniture()
	b.ID = "b"
	h := newHarness(t, a, b)

	token := viewToken(t, h.get("/edit/a").Body.String())
	input := testsupport.ValidFurnitureInput()
	input["_view"] = token
	rec := h.post("/edit/b", input)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	_, editedA := h.backend.Edited["a"]
	assert.False(t, editedA)
	assert.Contains(t, h.backend.Edited, "b")
}

func TestEdit_MissingItemRendersUnavailable(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/edit/missing")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "This item could not be loaded.")
	assert.NotContains(t, rec.Body.String(), "loader:")
	assert.NotRegexp(t, viewTokenPattern, rec.Body.String())

	m := h.get("/metrics")
	require.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), "formflow_active_views 0")
}

func TestRegister_SignsInAndShowsNavigation(t *testing.T) {
	h := newHarness(t)

	token := viewToken(t, h.get("/register").Body.String())
	mismatch := h.post("/register", map[string]string{
		"_view": token, "email": "peter@abv.bg", "password": "123", "rePass": "124",
	})
	require.Equal(t, http.StatusOK, mismatch.Code)
	assert.Contains(t, mismatch.Body.String(), "Passwords do not match")
	assert.Empty(t, mismatch.Result().Cookies())

	rec := h.post("/register", map[string]string{
		"_view": token, "email": "peter@abv.bg", "password": "123", "rePass": "123",
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, config.Defaults().Session.Cookie, cookie.Name)

	stored, err := h.sessions.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "token-peter@abv.bg", stored.AccessToken)
	assert.Empty(t, stored.Password)

	home := h.get("/", cookie)
	require.Equal(t, http.StatusOK, home.Code)
	assert.Contains(t, home.Body.String(), "Welcome, peter@abv.bg")
	assert.Contains(t, home.Body.String(), `href="/create"`)

	page := h.get("/create", cookie)
	input := testsupport.ValidFurnitureInput()
	input["_view"] = viewToken(t, page.Body.String())
	require.Equal(t, http.StatusSeeOther, h.post("/create", input, cookie).Code)
	assert.Equal(t, []string{"token-peter@abv.bg"}, h.backend.tokens)
}

func TestLogout_ClearsSession(t *testing.T) {
	h := newHarness(t)
	id := session.NewID()
	require.NoError(t, h.sessions.Put(context.Background(), id, model.User{Email: "a@b.c", AccessToken: "t"}))
	cookie := &http.Cookie{Name: config.Defaults().Session.Cookie, Value: id}

	rec := h.post("/logout", nil, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, h.backend.logouts)
	_, err := h.sessions.Get(context.Background(), id)
	assert.ErrorIs(t, err, session.ErrNotFound)

	home := h.get("/", cookie)
	assert.Contains(t, home.Body.String(), `href="/register"`)
}

func TestCatalog_ListsItems(t *testing.T) {
	item := testsupport.ValidFurniture()
	item.ID = "x1"
	h := newHarness(t, item)

	rec := h.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "235.00 $")
	assert.Contains(t, rec.Body.String(), `href="/assets/formflow.css"`)
}

func TestOperationalRoutes(t *testing.T) {
	h := newHarness(t)

	health := h.get("/healthz")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Equal(t, "ok", health.Body.String())

	css := h.get("/assets/formflow.css")
	assert.Equal(t, http.StatusOK, css.Code)

	h.get("/create")
	m := h.get("/metrics")
	require.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), `formflow_http_requests_total{method="GET",route="/create",status="200"} 1`)
	assert.Contains(t, m.Body.String(), "formflow_active_views 1")
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := server.New(config.Defaults(), server.Deps{})
	require.Error(t, err)
}
