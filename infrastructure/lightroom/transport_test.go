package lightroom

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL, tokenURL string) *Client {
	t.Helper()
	store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
	return NewClient(Config{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://localhost/callback",
		BaseURL:      baseURL,
		TokenURL:     tokenURL,
	}, store)
}

func TestStripGuardPrefix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"exact prefix", `while (1) {}{"id":"abc"}`, `{"id":"abc"}`},
		{"newline after prefix", "while (1) {}\n{\"id\":\"abc\"}", `{"id":"abc"}`},
		{"leading whitespace", "  \n while (1) {}{\"id\":\"abc\"}", `{"id":"abc"}`},
		{"different casing", `WHILE (1) {}{"id":"abc"}`, `{"id":"abc"}`},
		{"no prefix", `{"id":"abc"}`, `{"id":"abc"}`},
		{"non-json body", "plain text", "plain text"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(stripGuardPrefix([]byte(tt.in))))
		})
	}
}

func TestRequest_StripsGuardAndSetsHeaders(t *testing.T) {
	var gotAuth, gotAPIKey string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`while (1) {}{"resources":[{"id":"cat-1","payload":{"name":"Main"}}]}`))
	}))
	defer api.Close()

	client := newTestClient(t, api.URL, api.URL+"/token")
	require.NoError(t, client.tokens.Save("tok-123", "refresh-1", 3600))

	catalogs, err := client.ListCatalogs(context.Background())
	require.NoError(t, err)
	require.Len(t, catalogs, 1)
	assert.Equal(t, "cat-1", catalogs[0].ID)
	assert.Equal(t, "Main", catalogs[0].Name)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "test-client", gotAPIKey)
}

func TestRequest_RefreshesOnceOn401(t *testing.T) {
	var apiCalls, tokenCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)
		_ = r.ParseForm()
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh","refresh_token":"refresh-2","expires_in":3600}`))
	})
	mux.HandleFunc("/v2/catalogs", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&apiCalls, 1)
		if n == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"resources":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL, srv.URL+"/token")
	require.NoError(t, client.tokens.Save("stale", "refresh-1", 3600))

	_, err := client.ListCatalogs(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&apiCalls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&tokenCalls))
}

func TestRequest_SecondUnauthorizedStops(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh","refresh_token":"refresh-2","expires_in":3600}`))
	})
	var apiCalls int32
	mux.HandleFunc("/v2/catalogs", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&apiCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL, srv.URL+"/token")
	require.NoError(t, client.tokens.Save("stale", "refresh-1", 3600))

	_, err := client.ListCatalogs(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthentication(err))
	// One original attempt plus exactly one retry.
	assert.EqualValues(t, 2, atomic.LoadInt32(&apiCalls))
}

func TestRequest_NoTokenYieldsAuthenticationError(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the API without a token")
	}))
	defer api.Close()

	client := newTestClient(t, api.URL, api.URL+"/token")

	_, err := client.ListCatalogs(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthentication(err))
}

func TestRequest_PreflightRefreshNearExpiry(t *testing.T) {
	var tokenCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh","refresh_token":"refresh-2","expires_in":3600}`))
	})
	mux.HandleFunc("/v2/catalogs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"resources":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL, srv.URL+"/token")
	// 60 seconds left is inside the refresh horizon.
	require.NoError(t, client.tokens.Save("nearly-stale", "refresh-1", 60))

	_, err := client.ListCatalogs(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&tokenCalls))
}

func TestUpstreamError_MissingCatalogHint(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`while (1) {}{"description":"Resource not found"}`))
	}))
	defer api.Close()

	client := newTestClient(t, api.URL, api.URL+"/token")
	require.NoError(t, client.tokens.Save("tok", "refresh-1", 3600))

	_, err := client.ListCatalogs(context.Background())
	require.Error(t, err)
	kind, ok := ErrorKind(err)
	require.True(t, ok)
	assert.Equal(t, KindUpstream, kind)
	assert.Contains(t, err.Error(), "Resource not found")
	assert.Contains(t, err.Error(), "known causes")
}

func TestUpstreamError_NonJSONBody(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer api.Close()

	client := newTestClient(t, api.URL, api.URL+"/token")
	require.NoError(t, client.tokens.Save("tok", "refresh-1", 3600))

	_, err := client.ListCatalogs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
