package contentapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"thibou/internal/catalog"
	"thibou/internal/contentapi"
	"thibou/internal/services"
)

type fakeServer struct {
	mu       sync.Mutex
	authHits int
	requests []recordedRequest
	token    func() string
	handler  func(w http.ResponseWriter, r *http.Request, body []byte)
}

type recordedRequest struct {
	method string
	path   string
	auth   string
	body   string
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization"), body: string(body)})
	f.mu.Unlock()

	if r.URL.Path == "/auth/system" {
		f.mu.Lock()
		f.authHits++
		f.mu.Unlock()
		var payload map[string]string
		_ = json.Unmarshal(body, &payload)
		if payload["key"] != "system-key" {
			http.Error(w, `{"message":"Invalid system key"}`, http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": f.token()})
		return
	}
	if f.handler != nil {
		f.handler(w, r, body)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (f *fakeServer) auths() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authHits
}

func (f *fakeServer) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func signToken(t *testing.T, expires time.Time, scopes ...string) string {
	t.Helper()
	scopeList := make([]any, 0, len(scopes))
	for _, scope := range scopes {
		scopeList = append(scopeList, scope)
	}
	claims := jwt.MapClaims{
		"user": map[string]any{"id": "system-token", "scopes": scopeList},
		"type": "system",
		"exp":  expires.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newClient(t *testing.T, fake *fakeServer, now func() time.Time) *contentapi.Client {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	client, err := contentapi.New(contentapi.Config{BaseURL: server.URL, SystemKey: "system-key", Now: now})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestAuthenticateStoresBearerToken(t *testing.T) {
	expires := time.Date(2026, 1, 1, 13, 0, 0, 0, time.UTC)
	token := signToken(t, expires, "villager:admin", "fish:admin", "bug:admin")
	fake := &fakeServer{token: func() string { return token }}
	fake.handler = func(w http.ResponseWriter, r *http.Request, _ []byte) {
		_, _ = w.Write([]byte(`{"villagers":[{"_id":"v1","name":{"en":"Ribbot"},"popularity_rank":"12"}]}`))
	}
	client := newClient(t, fake, func() time.Time { return expires.Add(-time.Hour) })

	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if !client.ExpiresAt().Equal(expires) {
		t.Fatalf("unexpected expiry: %v", client.ExpiresAt())
	}
	records, err := client.List(context.Background(), catalog.KindVillager)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(records) != 1 || records[0].ID != "v1" || records[0].Rank() != "12" {
		t.Fatalf("unexpected records: %+v", records)
	}
	requests := fake.recorded()
	last := requests[len(requests)-1]
	if last.auth != "Bearer "+token {
		t.Fatalf("unexpected authorization header: %q", last.auth)
	}
	if last.path != "/villager" {
		t.Fatalf("unexpected list path: %q", last.path)
	}
}

func TestAuthenticateRejectedIsAuthError(t *testing.T) {
	fake := &fakeServer{token: func() string { return "unused" }}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	client, err := contentapi.New(contentapi.Config{BaseURL: server.URL, SystemKey: "wrong"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	err = client.Authenticate(context.Background())
	if err == nil {
		t.Fatal("expected authentication error")
	}
	if !errors.Is(err, services.ErrAuth) || !services.IsFatal(err) {
		t.Fatalf("expected fatal auth error, got %v", err)
	}
}

func TestRequestsBeforeAuthenticateFail(t *testing.T) {
	fake := &fakeServer{token: func() string { return "unused" }}
	client := newClient(t, fake, nil)
	if _, err := client.List(context.Background(), catalog.KindBug); !errors.Is(err, services.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestTokenRefreshedNearExpiry(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var clockMu sync.Mutex
	current := start
	now := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return current
	}
	fake := &fakeServer{}
	fake.token = func() string { return signToken(t, now().Add(time.Hour), "fish:admin") }
	client := newClient(t, fake, now)

	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if err := client.UpdateNames(context.Background(), catalog.KindFish, "f1", catalog.Names{"en": "Koi"}); err != nil {
		t.Fatalf("UpdateNames returned error: %v", err)
	}
	if hits := fake.auths(); hits != 1 {
		t.Fatalf("expected a single authentication, got %d", hits)
	}

	clockMu.Lock()
	current = start.Add(59*time.Minute + 30*time.Second)
	clockMu.Unlock()
	if err := client.UpdateNames(context.Background(), catalog.KindFish, "f1", catalog.Names{"en": "Koi"}); err != nil {
		t.Fatalf("UpdateNames returned error: %v", err)
	}
	if hits := fake.auths(); hits != 2 {
		t.Fatalf("expected token refresh, got %d authentications", hits)
	}
}

func TestCanWriteChecksScopes(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	fake := &fakeServer{token: func() string { return signToken(t, expires, "villager:admin", "bug:write") }}
	client := newClient(t, fake, nil)
	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if !client.CanWrite(catalog.KindVillager) || !client.CanWrite(catalog.KindBug) {
		t.Fatal("expected villager and bug scopes")
	}
	if client.CanWrite(catalog.KindFossil) {
		t.Fatal("expected fossil scope to be missing")
	}
}

func TestOpaqueTokenIsAccepted(t *testing.T) {
	fake := &fakeServer{token: func() string { return "opaque-token" }}
	client := newClient(t, fake, nil)
	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if !client.ExpiresAt().IsZero() {
		t.Fatal("expected unknown expiry for opaque token")
	}
	if !client.CanWrite(catalog.KindFossil) {
		t.Fatal("expected unknown scopes to be treated as sufficient")
	}
}

func TestCreateReturnsID(t *testing.T) {
	fake := &fakeServer{token: func() string { return "opaque" }}
	fake.handler = func(w http.ResponseWriter, r *http.Request, body []byte) {
		if r.Method != http.MethodPost || r.URL.Path != "/fish" {
			http.NotFound(w, r)
			return
		}
		if !strings.Contains(string(body), `"location":"sea"`) {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"created","fish":{"_id":"abc123"}}`))
	}
	client := newClient(t, fake, nil)
	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	id, err := client.Create(context.Background(), catalog.KindFish, catalog.Fish{Name: catalog.EnglishOnly("Tuna"), Location: "sea"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if id != "abc123" {
		t.Fatalf("unexpected id: %q", id)
	}
}

func TestCreateWithoutIDFails(t *testing.T) {
	fake := &fakeServer{token: func() string { return "opaque" }}
	fake.handler = func(w http.ResponseWriter, r *http.Request, _ []byte) {
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}
	client := newClient(t, fake, nil)
	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if _, err := client.Create(context.Background(), catalog.KindBug, catalog.Bug{}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestCreateErrorIncludesBodySnippet(t *testing.T) {
	fake := &fakeServer{token: func() string { return "opaque" }}
	fake.handler = func(w http.ResponseWriter, r *http.Request, _ []byte) {
		http.Error(w, `{"message":"duplicate villager"}`, http.StatusConflict)
	}
	client := newClient(t, fake, nil)
	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	_, err := client.Create(context.Background(), catalog.KindVillager, catalog.Villager{})
	if err == nil || !strings.Contains(err.Error(), "duplicate villager") {
		t.Fatalf("expected body snippet in error, got %v", err)
	}
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
}

func TestUpdatePayloads(t *testing.T) {
	fake := &fakeServer{token: func() string { return "opaque" }}
	client := newClient(t, fake, nil)
	ctx := context.Background()
	if err := client.Authenticate(ctx); err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if err := client.UpdateHouse(ctx, "v1", catalog.House{Roof: "red roof"}); err != nil {
		t.Fatalf("UpdateHouse: %v", err)
	}
	if err := client.UpdatePopularityRank(ctx, "v1", "3"); err != nil {
		t.Fatalf("UpdatePopularityRank: %v", err)
	}
	if err := client.UploadImage(ctx, catalog.KindFossil, "fo1", "spino_skull", "data:image/png;base64,AAAA"); err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if err := client.UpdateNames(ctx, catalog.KindBug, " ", catalog.Names{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty id, got %v", err)
	}

	want := []recordedRequest{
		{method: http.MethodPut, path: "/villager/v1", body: `{"house":{"roof":"red roof"}}`},
		{method: http.MethodPut, path: "/villager/v1", body: `{"popularity_rank":"3"}`},
		{method: http.MethodPost, path: "/fossil/fo1/img/spino_skull", body: `{"image_data":"data:image/png;base64,AAAA"}`},
	}
	got := fake.recorded()[1:]
	if len(got) != len(want) {
		t.Fatalf("unexpected request count: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].method != want[i].method || got[i].path != want[i].path || got[i].body != want[i].body {
			t.Fatalf("request %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := contentapi.New(contentapi.Config{}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
