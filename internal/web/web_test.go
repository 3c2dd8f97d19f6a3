package web

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcrew/admin-console/internal/adminapi"
	"github.com/shopcrew/admin-console/internal/audit"
	"github.com/shopcrew/admin-console/internal/notify"
	"github.com/shopcrew/admin-console/internal/session"
)

// fakeBackend records every request it serves so tests can assert which
// backend calls a console action did or did not make.
type fakeBackend struct {
	t   *testing.T
	mux *http.ServeMux
	srv *httptest.Server

	mu       sync.Mutex
	requests []string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	b := &fakeBackend{t: t, mux: http.NewServeMux()}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) calls(methodPath string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r == methodPath {
			n++
		}
	}
	return n
}

func (b *fakeBackend) ok(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "ok",
		"data":    data,
	})
}

func (b *fakeBackend) fail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}

type console struct {
	e        *echo.Echo
	sessions *session.Manager
	store    *session.MemoryStore
}

func newConsole(t *testing.T, backendURL string) *console {
	store := session.NewMemoryStore()
	sessions := session.NewManager(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	api := adminapi.NewClient(adminapi.Config{
		BaseURL:        backendURL,
		TokenSource:    sessions.Token,
		OnUnauthorized: sessions.Invalidate,
	})
	feed := notify.NewFeed(api, store)
	producer := audit.NewProducer(nil, "admin_activity", nil)

	h := NewHandlers(api, sessions, feed, producer, store, false)

	e := echo.New()
	renderer, err := NewRenderer()
	require.NoError(t, err)
	e.Renderer = renderer
	Register(e, h, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return &console{e: e, sessions: sessions, store: store}
}

// login establishes a session directly and returns the browser cookie.
func (cs *console) login(t *testing.T) *http.Cookie {
	sid, err := cs.sessions.Establish("opaque-test-token", adminapi.Admin{
		ID: 1, Email: "admin@example.com", FullName: "Test Admin", Role: "admin",
	})
	require.NoError(t, err)
	return &http.Cookie{Name: sessionCookie, Value: sid}
}

// csrf fetches the login page to harvest a CSRF cookie whose value doubles
// as a valid form token.
func (cs *console) csrf(t *testing.T) *http.Cookie {
	req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	rec := httptest.NewRecorder()
	cs.e.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == "console_csrf" {
			return c
		}
	}
	t.Fatal("no csrf cookie issued")
	return nil
}

func (cs *console) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	cs.e.ServeHTTP(rec, req)
	return rec
}

func (cs *console) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	cs.e.ServeHTTP(rec, req)
	return rec
}

func TestRequireSession_RedirectsWhenLoggedOut(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(t)
	cs := newConsole(t, backend.srv.URL)

	for _, path := range []string{"/admin", "/admin/orders", "/admin/products", "/admin/settings"} {
		rec := cs.get(path)
		require.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/admin/login", rec.Header().Get("Location"), path)
	}
	assert.Empty(t, backend.requests)
}

func TestLoginPage_RedirectsWhenAuthenticated(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(t)
	cs := newConsole(t, backend.srv.URL)
	sid := cs.login(t)

	rec := cs.get("/admin/login", sid)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
}

func TestLogin_EstablishesSession(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(t)
	backend.mux.HandleFunc("POST /admin/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin@example.com", body["email"])
		backend.ok(w, map[string]any{
			"token": "backend-token", "type": "Bearer",
			"userId": 7, "email": "admin@example.com", "fullName": "Test Admin", "role": "admin",
		})
	})
	cs := newConsole(t, backend.srv.URL)
	csrf := cs.csrf(t)

	rec := cs.post("/admin/login", url.Values{
		"_csrf":    {csrf.Value},
		"email":    {"admin@example.com"},
		"password": {"secret123"},
	}, csrf)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	admin := cs.sessions.Current()
	require.NotNil(t, admin)
	assert.EqualValues(t, 7, admin.ID)
	assert.Equal(t, "backend-token", cs.sessions.Token())

	var sidSet bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			sidSet = true
		}
	}
	assert.True(t, sidSet, "session cookie not set")
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(t)
	backend.mux.HandleFunc("POST /admin/auth/login", func(w http.ResponseWriter, r *http.Request) {
		backend.fail(w, http.StatusUnauthorized, "Invalid credentials")
	})
	cs := newConsole(t, backend.srv.URL)
	csrf := cs.csrf(t)

	rec := cs.post("/admin/login", url.Values{
		"_csrf":    {csrf.Value},
		"email":    {"admin@example.com"},
		"password": {"wrong"},
	}, csrf)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
	assert.Nil(t, cs.sessions.Current())
}

func TestOrdersPage_StatusFilter(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(t)
	backend.mux.HandleFunc("GET /admin/orders", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "PENDING", q.Get("status"))
		assert.Equal(t, "0", q.Get("page"))
		assert.Equal(t, "10", q.Get("size"))
		backend.ok(w, map[string]any{
			"content": []map[string]any{{
				"id": 5, "orderNumber": "ORD-0005", "status": "PENDING",
				"paymentStatus": "PAID", "customerName": "Jo Buyer",
				"total": 42.5, "itemCount": 2, "orderDate": "2025-06-01T10:00:00",
			}},
			"totalElements": 1, "totalPages": 1, "pageNumber": 0, "pageSize": 10,
		})
	})
	cs := newConsole(t, backend.srv.URL)
	sid := cs.login(t)

	rec := cs.get("/admin/orders?status=PENDING", sid)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "ORD-0005")
	assert.Contains(t, body, `badge-pending">Pending`)
	assert.Contains(t, body, `badge-pay-paid">Paid`)
}

func TestOrdersPage_AllFilterNotTransmitted(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(t)
	backend.mux.HandleFunc("GET /admin/orders", func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["status"]
		assert.False(t, present, "the all sentinel must not reach the backend")
		backend.ok(w, map[string]any{"content": []any{}, "totalElements": 0, "totalPages": 0})
	})
	cs := newConsole(t, backend.srv.URL)
	sid := cs.login(t)

	rec := cs.get("/admin/orders?status=all", sid)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data available")
}

func TestOrderDetail_Backend401RedirectsToLogin(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(t)
	backend.mux.HandleFunc("GET /admin/orders/5", func(w http.ResponseWriter, r *http.Request) {
		backend.fail(w, http.StatusUnauthorized, "Token expired")
	})
	cs := newConsole(t, backend.srv.URL)
	sid := cs.login(t)

	rec := cs.get("/admin/orders/5", sid)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	// The 401 hook cleared the persisted session.
	assert.Nil(t, cs.sessions.Current())
}

func TestListPages_Backend401RedirectsToLogin(t *testing.T) {
	t.Parallel()

	// Every page, list views included, must route to login when the backend
	// rejects the token instead of rendering a degraded page.
	paths := []string{
		"/admin/orders",
		"/admin/products",
		"/admin/users",
		"/admin/coupons",
		"/admin/inventory",
		"/admin/categories",
		"/admin/reports",
	}
	for _, path := range paths {
		path := path
		t.Run(strings.TrimPrefix(path, "/admin/"), func(t *testing.T) {
			t.Parallel()

			backend := newFakeBackend(t)
			backend.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
				backend.fail(w, http.StatusUnauthorized, "Token expired")
			})
			cs := newConsole(t, backend.srv.URL)
			sid := cs.login(t)

			rec := cs.get(path, sid)
			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
			assert.Nil(t, cs.sessions.Current())
		})
	}
}

func TestAdjustStock_RejectsNegativeLocally(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(t)
	backend.mux.HandleFunc("GET /admin/products/3", func(w http.ResponseWriter, r *http.Request) {
		backend.ok(w, map[string]any{"id": 3, "name": "Widget", "stockQuantity": 2})
	})
	cs := newConsole(t, backend.srv.URL)
	sid := cs.login(t)
	csrf := cs.csrf(t)

	rec := cs.post("/admin/inventory/3/adjust", url.Values{
		"_csrf":    {csrf.Value},
		"quantity": {"5"},
		"type":     {"remove"},
	}, sid, csrf)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/inventory", rec.Header().Get("Location"))
	assert.Zero(t, backend.calls("PUT /admin/products/3/stock"), "rejected adjustment must not reach the backend")
}

func TestDeleteProduct_TwoStep(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(t)
	backend.mux.HandleFunc("GET /admin/products/9", func(w http.ResponseWriter, r *http.Request) {
		backend.ok(w, map[string]any{"id": 9, "name": "Old Widget"})
	})
	backend.mux.HandleFunc("DELETE /admin/products/9", func(w http.ResponseWriter, r *http.Request) {
		backend.ok(w, nil)
	})
	cs := newConsole(t, backend.srv.URL)
	sid := cs.login(t)
	csrf := cs.csrf(t)

	// Step one renders the confirmation and must not delete anything.
	rec := cs.post("/admin/products/9/delete", url.Values{"_csrf": {csrf.Value}}, sid, csrf)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Old Widget")
	assert.Zero(t, backend.calls("DELETE /admin/products/9"))

	match := regexp.MustCompile(`name="confirm_token" value="([^"]+)"`).FindStringSubmatch(rec.Body.String())
	require.Len(t, match, 2, "confirmation page carries no token")

	// Step two presents the token and performs the delete.
	rec = cs.post("/admin/products/9/delete", url.Values{
		"_csrf":         {csrf.Value},
		"confirm_token": {match[1]},
	}, sid, csrf)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, backend.calls("DELETE /admin/products/9"))

	// The token is single-use.
	rec = cs.post("/admin/products/9/delete", url.Values{
		"_csrf":         {csrf.Value},
		"confirm_token": {match[1]},
	}, sid, csrf)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, backend.calls("DELETE /admin/products/9"))
}

func TestCreateCoupon_ValidationAndSubmit(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(t)
	backend.mux.HandleFunc("POST /admin/coupons", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "SUMMER20", in["code"])
		assert.Equal(t, "percentage", in["type"])
		assert.Equal(t, "2025-09-30T23:59:00", in["expiresAt"])
		backend.ok(w, map[string]any{"id": 11, "code": "SUMMER20"})
	})
	cs := newConsole(t, backend.srv.URL)
	sid := cs.login(t)
	csrf := cs.csrf(t)

	// A percentage over 100 re-renders the form without calling the backend.
	rec := cs.post("/admin/coupons", url.Values{
		"_csrf":      {csrf.Value},
		"code":       {"summer20"},
		"type":       {"percentage"},
		"value":      {"150"},
		"expires_at": {"2025-09-30T23:59"},
	}, sid, csrf)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot exceed 100")
	assert.Zero(t, backend.calls("POST /admin/coupons"))

	rec = cs.post("/admin/coupons", url.Values{
		"_csrf":      {csrf.Value},
		"code":       {"summer20"},
		"type":       {"percentage"},
		"value":      {"20"},
		"expires_at": {"2025-09-30T23:59"},
	}, sid, csrf)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/coupons", rec.Header().Get("Location"))
	assert.Equal(t, 1, backend.calls("POST /admin/coupons"))
}

func TestLogout_ClearsSession(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(t)
	cs := newConsole(t, backend.srv.URL)
	sid := cs.login(t)
	csrf := cs.csrf(t)

	rec := cs.post("/admin/logout", url.Values{"_csrf": {csrf.Value}}, sid, csrf)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
	assert.Nil(t, cs.sessions.Current())

	// The old cookie no longer passes the guard.
	rec = cs.get("/admin/orders", sid)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
}

func TestOrderDetail_MissingOrderRendersNotFound(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(t)
	backend.mux.HandleFunc("GET /admin/orders/77", func(w http.ResponseWriter, r *http.Request) {
		backend.fail(w, http.StatusNotFound, "Order not found")
	})
	cs := newConsole(t, backend.srv.URL)
	sid := cs.login(t)

	rec := cs.get("/admin/orders/77", sid)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "That order does not exist")
}

func TestRefundOrder_CappedAtTotal(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(t)
	backend.mux.HandleFunc("GET /admin/orders/4", func(w http.ResponseWriter, r *http.Request) {
		backend.ok(w, map[string]any{
			"id": 4, "orderNumber": "ORD-0004",
			"status": "DELIVERED", "paymentStatus": "PAID", "total": 50.0,
		})
	})
	cs := newConsole(t, backend.srv.URL)
	sid := cs.login(t)
	csrf := cs.csrf(t)

	rec := cs.post("/admin/orders/4/refund", url.Values{
		"_csrf":  {csrf.Value},
		"amount": {"80"},
		"reason": {"damaged"},
	}, sid, csrf)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Zero(t, backend.calls("POST /admin/orders/4/refund"), "over-total refund must not reach the backend")
}
