package system

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	if err := CheckEndpoint(context.Background(), srv.URL+"/api"); err != nil {
		t.Fatalf("reachable server: %v", err)
	}

	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := closed.URL
	closed.Close()
	if err := CheckEndpoint(context.Background(), addr); err == nil {
		t.Fatalf("closed server should be unreachable")
	}

	if err := CheckEndpoint(context.Background(), "not a url"); err == nil {
		t.Fatalf("expected invalid URL error")
	}
}

func TestProxySettings(t *testing.T) {
	t.Setenv("HTTPS_PROXY", "http://proxy.internal:3128")
	if got := ProxySettings()["HTTPS_PROXY"]; got != "http://proxy.internal:3128" {
		t.Fatalf("HTTPS_PROXY = %q", got)
	}
}

func TestAvailableSpace(t *testing.T) {
	n, err := AvailableSpace(t.TempDir())
	if err != nil {
		t.Skipf("unsupported: %v", err)
	}
	if n == 0 {
		t.Fatalf("expected some free space")
	}
}
