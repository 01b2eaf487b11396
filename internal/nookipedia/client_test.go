package nookipedia_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"thibou/internal/nookipedia"
	"thibou/internal/services"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *nookipedia.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := nookipedia.New(nookipedia.Config{APIKey: "secret", BaseURL: server.URL, UserAgent: "thibou/test"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestVillagersSendsHeadersAndDecodes(t *testing.T) {
	var captured *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		_, _ = w.Write([]byte(`[{"id":"ant00","name":"Cyrano","species":"Anteater","birthday_month":"March","birthday_day":"9","islander":false,"appearances":["DNM","NH"]}]`))
	})

	villagers, err := client.Villagers(context.Background())
	if err != nil {
		t.Fatalf("Villagers returned error: %v", err)
	}
	if captured.URL.Path != "/villagers" {
		t.Fatalf("unexpected path: %q", captured.URL.Path)
	}
	if got := captured.Header.Get("X-API-KEY"); got != "secret" {
		t.Fatalf("unexpected api key header: %q", got)
	}
	if got := captured.Header.Get("Accept-Version"); got == "" {
		t.Fatal("expected Accept-Version header")
	}
	if got := captured.Header.Get("User-Agent"); got != "thibou/test" {
		t.Fatalf("unexpected user agent: %q", got)
	}
	if len(villagers) != 1 || villagers[0].Name != "Cyrano" {
		t.Fatalf("unexpected villagers: %+v", villagers)
	}
	if villagers[0].BirthdayDay != 9 {
		t.Fatalf("unexpected birthday day: %d", villagers[0].BirthdayDay)
	}
}

func TestEndpointsUseExpectedPaths(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`[]`))
	})
	ctx := context.Background()
	if _, err := client.Fish(ctx); err != nil {
		t.Fatalf("Fish: %v", err)
	}
	if _, err := client.Bugs(ctx); err != nil {
		t.Fatalf("Bugs: %v", err)
	}
	if _, err := client.Fossils(ctx); err != nil {
		t.Fatalf("Fossils: %v", err)
	}
	want := []string{"/nh/fish", "/nh/bugs", "/nh/fossils/all"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected paths: got %v want %v", paths, want)
	}
}

func TestFishDecodesHemispheres(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{{
			"name":      "Sea bass",
			"location":  "Sea",
			"sell_nook": 400,
			"sell_cj":   600,
			"north": map[string]any{
				"times_by_month": map[string]string{"1": "All day", "2": "NA"},
			},
		}})
	})
	fish, err := client.Fish(context.Background())
	if err != nil {
		t.Fatalf("Fish returned error: %v", err)
	}
	if fish[0].SellCJ != 600 || fish[0].SellNook != 400 {
		t.Fatalf("unexpected prices: %+v", fish[0])
	}
	if fish[0].North.TimesByMonth["2"] != "NA" {
		t.Fatalf("unexpected north times: %v", fish[0].North.TimesByMonth)
	}
	if fish[0].South.TimesByMonth != nil {
		t.Fatalf("expected absent south times, got %v", fish[0].South.TimesByMonth)
	}
}

func TestNon200IsExternalError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	})
	_, err := client.Bugs(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid key") {
		t.Fatalf("expected body snippet in error, got %v", err)
	}
}

func TestIntAcceptsNumbersAndStrings(t *testing.T) {
	tests := []struct {
		input string
		want  nookipedia.Int
	}{
		{`12`, 12},
		{`"7"`, 7},
		{`""`, 0},
		{`null`, 0},
		{`3.0`, 3},
	}
	for _, tt := range tests {
		var got nookipedia.Int
		if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("unexpected value for %s: got %d want %d", tt.input, got, tt.want)
		}
	}
	var bad nookipedia.Int
	if err := json.Unmarshal([]byte(`"soon"`), &bad); err == nil {
		t.Fatal("expected error for non-numeric string")
	}
}
