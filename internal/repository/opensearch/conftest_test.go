package opensearch

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"go.uber.org/zap"
)

// newTestRepo starts a stub index server and points a real client at it.
func newTestRepo(t *testing.T, handler http.HandlerFunc) *Repo {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse test server url: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("parse test server port: %v", err)
	}

	client, err := NewClient(Config{
		Host:     u.Hostname(),
		Port:     port,
		Insecure: true,
		Index:    "products_pets_v3",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return New(client)
}
