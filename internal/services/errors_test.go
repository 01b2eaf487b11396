package services_test

import (
	"errors"
	"strings"
	"testing"

	"thibou/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternal, "contentapi", "create", "villager rejected", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"contentapi", "create", "villager rejected"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := services.Wrap(nil, " ", "", "", nil)
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected external marker by default, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected generic detail, got %q", err.Error())
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "configuration", err: services.Wrap(services.ErrConfiguration, "config", "validate", "missing key", nil), want: true},
		{name: "auth", err: services.Wrap(services.ErrAuth, "contentapi", "authenticate", "rejected", nil), want: true},
		{name: "structure", err: services.Wrap(services.ErrStructure, "wiki", "listing", "table missing", nil), want: false},
		{name: "external", err: services.Wrap(services.ErrExternal, "contentapi", "update", "500", nil), want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.IsFatal(tc.err); got != tc.want {
				t.Fatalf("unexpected IsFatal: got %v want %v", got, tc.want)
			}
		})
	}
}
