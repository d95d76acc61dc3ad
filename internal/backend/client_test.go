package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"distris/internal/catalog"
	"distris/internal/model"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, DefaultPrefix, 5*time.Second)
}

func TestClient_URL(t *testing.T) {
	c := New("http://backend:3000/", "/api", 0)

	cases := map[string]string{
		"/users":             "http://backend:3000/api/users",
		"/api/search/global": "http://backend:3000/api/search/global",
		"http://other/x":     "http://other/x",
	}
	for in, want := range cases {
		if got := c.url(in); got != want {
			t.Errorf("url(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{"json error", "application/json", `{"error":"Credenciales inválidas"}`, "Credenciales inválidas"},
		{"json message", "application/json", `{"message":"Proveedor caído"}`, "Proveedor caído"},
		{"html page", "text/html", "<html><head><style>p{}</style></head><body><h1>Bad  Gateway</h1>\n<p>nginx</p></body></html>", "Bad Gateway nginx"},
		{"plain text", "text/plain", "timeout upstream", "timeout upstream"},
		{"empty", "", "  ", "Error HTTP 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorMessage(502, tt.contentType, []byte(tt.body)); got != tt.want {
				t.Errorf("errorMessage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIError_UnauthorizedUnwraps(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.ListProducts(context.Background(), model.TGS, "", 10)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 401 {
		t.Fatalf("err = %#v, want *APIError with status 401", err)
	}
}

func TestLogin_FallsBackOn404(t *testing.T) {
	var hits []string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.URL.Path)
		http.NotFound(w, r)
	})
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.URL.Path)
		http.NotFound(w, r)
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.URL.Path)
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "ana@example.com" || body["password"] != "secret" {
			t.Errorf("unexpected login body %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"token":"jwt-1","user":{"id":1,"email":"ana@example.com","role":"admin"}}`)
	})
	c := newTestClient(t, mux)

	res, err := c.Login(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token != "jwt-1" || !res.User.IsAdmin() {
		t.Errorf("unexpected result %+v", res)
	}
	if !strings.HasSuffix(res.Endpoint, "/api/auth/login") {
		t.Errorf("Endpoint = %q", res.Endpoint)
	}
	if len(hits) != 3 {
		t.Errorf("hits = %v, want three routes tried", hits)
	}
}

func TestLogin_StopsOnNon404(t *testing.T) {
	var fallbackHit atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":"Credenciales inválidas"}`)
	})
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		fallbackHit.Store(true)
	})
	c := newTestClient(t, mux)

	_, err := c.Login(context.Background(), "ana@example.com", "bad")
	if err == nil || err.Error() != "Credenciales inválidas" {
		t.Fatalf("err = %v", err)
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Error("expected ErrUnauthorized in chain")
	}
	if fallbackHit.Load() {
		t.Error("fallback route should not be tried after a non-404 failure")
	}
}

func TestLogin_Responses(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantErr  error
		wantRole string
	}{
		{"missing token", `{"user":{"email":"a@b.c","role":"admin"}}`, ErrInvalidLoginResponse, ""},
		{"not json", `ok`, ErrInvalidLoginResponse, ""},
		{"missing user", `{"token":"t"}`, nil, "user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			}))

			res, err := c.Login(context.Background(), "a@b.c", "x")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && (res.User.Role != tt.wantRole || res.User.Email != "a@b.c") {
				t.Errorf("user = %+v", res.User)
			}
		})
	}
}

func TestLogin_AllRoutesMissing(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())

	_, err := c.Login(context.Background(), "a@b.c", "x")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 404 {
		t.Fatalf("err = %v, want wrapped 404", err)
	}
}

func TestMe(t *testing.T) {
	for name, body := range map[string]string{
		"wrapped": `{"user":{"id":3,"email":"ana@example.com","role":"admin"}}`,
		"bare":    `{"id":3,"email":"ana@example.com","role":"admin"}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/auth/me" {
					t.Errorf("path = %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer jwt" {
					t.Errorf("Authorization = %q", got)
				}
				io.WriteString(w, body)
			})).WithToken("jwt")

			u, err := c.Me(context.Background())
			if err != nil {
				t.Fatalf("Me: %v", err)
			}
			if u.ID != 3 || !u.IsAdmin() {
				t.Errorf("user = %+v", u)
			}
		})
	}
}

func TestSync(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/sync/gruponucleo" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, "Sincronización OK")
	}))

	report, err := c.Sync(context.Background(), model.GrupoNucleo)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if string(report) != `"Sincronización OK"` {
		t.Errorf("report = %s", report)
	}

	if _, err := c.Sync(context.Background(), model.SourceID("ACME")); !errors.Is(err, model.ErrUnknownSource) {
		t.Errorf("err = %v, want ErrUnknownSource", err)
	}
}

func TestListProducts(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/newbytes-products" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "mouse gamer" || r.URL.Query().Get("limit") != "25" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		io.WriteString(w, `[{"codigo":"A1","detalle":"Mouse"},{"codigo":"A2"}]`)
	}))

	records, err := c.ListProducts(context.Background(), model.NewBytes, "mouse gamer", 25)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("len = %d, want 2", len(records))
	}
}

func TestListProducts_NonArrayBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"items":[]}`)
	}))

	records, err := c.ListProducts(context.Background(), model.TGS, "", 10)
	if err != nil || len(records) != 0 {
		t.Fatalf("records = %v, err = %v", records, err)
	}
}

func TestGlobalSearch(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/search/global" || r.URL.Query().Get("limit") != "200" {
			t.Errorf("%s?%s", r.URL.Path, r.URL.RawQuery)
		}
		io.WriteString(w, `[{"source":"TGS","id":"1"},{"source":"ELIT","id":"2"}]`)
	}))

	records, err := c.GlobalSearch(context.Background(), "ssd", 200)
	if err != nil || len(records) != 2 {
		t.Fatalf("records = %v, err = %v", records, err)
	}
}

func TestSearchAll_PartialFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tgs-products":
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"error":"boom"}`)
		case "/api/elit-products":
			io.WriteString(w, `[{"id":"e1","nombre":"Disco"},{"id":"e2","nombre":"Placa"}]`)
		case "/api/gruponucleo-products":
			io.WriteString(w, `[{"codigo":"g1"}]`)
		case "/api/newbytes-products":
			io.WriteString(w, `not json`)
		}
	}))

	res, err := c.SearchAll(context.Background(), catalog.NewNormalizer(), "disco", 20)
	if err != nil {
		t.Fatalf("SearchAll: %v", err)
	}

	var got []string
	for _, p := range res.Products {
		got = append(got, p.ID)
	}
	if want := "e1,e2,g1"; strings.Join(got, ",") != want {
		t.Errorf("ids = %v, want %s", got, want)
	}
	if len(res.Errors) != 1 || res.Errors[0].Source != model.TGS || res.Errors[0].Message != "TGS: boom" {
		t.Errorf("errors = %+v", res.Errors)
	}
}

func TestSearchAll_AllFail(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	res, err := c.SearchAll(context.Background(), catalog.NewNormalizer(), "x", 5)
	if err == nil {
		t.Fatal("expected error when every source fails")
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized in chain", err)
	}
	if len(res.Errors) != len(model.Sources) {
		t.Errorf("errors = %d, want %d", len(res.Errors), len(model.Sources))
	}
}

func TestUsers(t *testing.T) {
	var lastMethod, lastPath string
	var lastBody map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastMethod, lastPath = r.Method, r.URL.Path
		lastBody = nil
		json.NewDecoder(r.Body).Decode(&lastBody)
		switch r.Method {
		case http.MethodGet:
			io.WriteString(w, `[{"id":1,"email":"a@b.c","role":"admin","createdAt":"2024-05-01T10:00:00Z"}]`)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			io.WriteString(w, `{"id":7,"email":"n@b.c","role":"user"}`)
		}
	}))
	ctx := context.Background()

	list, err := c.ListUsers(ctx)
	if err != nil || len(list) != 1 || list[0].CreatedAt == nil {
		t.Fatalf("ListUsers = %+v, %v", list, err)
	}

	u, err := c.UpdateUser(ctx, 7, model.UserPayload{Email: "n@b.c", Role: "user"})
	if err != nil || u.ID != 7 {
		t.Fatalf("UpdateUser = %+v, %v", u, err)
	}
	if lastMethod != http.MethodPatch || lastPath != "/api/users/7" {
		t.Errorf("update sent %s %s", lastMethod, lastPath)
	}
	if v, ok := lastBody["name"]; !ok || v != nil {
		t.Errorf("name should be sent as null, body = %v", lastBody)
	}
	if _, ok := lastBody["password"]; ok {
		t.Errorf("empty password should be omitted, body = %v", lastBody)
	}

	if err := c.DeleteUser(ctx, 7); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if lastMethod != http.MethodDelete {
		t.Errorf("delete sent %s", lastMethod)
	}
}

func TestLogin_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := New(srv.URL, DefaultPrefix, time.Second)
	srv.Close()

	_, err := c.Login(context.Background(), "a@b.c", "x")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
}
