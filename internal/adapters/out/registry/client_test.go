package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regdash/regdash/internal/domain"
	"github.com/regdash/regdash/pkg/logger"
)

const testDigest = digest.Digest("sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855")

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, WithHTTPClient(srv.Client()), WithLogger(logger.Discard()))
	require.NoError(t, err)
	return c
}

func TestNew_RejectsInvalidURLs(t *testing.T) {
	for _, raw := range []string{"localhost:5000", "ftp://registry", "http://", "://bad"} {
		_, err := New(raw)
		assert.Error(t, err, raw)
	}

	c, err := New("http://localhost:5000/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", c.baseURL.String())
}

func TestClient_ResolveDigest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2/library/nginx/manifests/latest", r.URL.Path)
		assert.Contains(t, r.Header.Get("Accept"), "application/vnd.docker.distribution.manifest.v2+json")
		assert.Contains(t, r.Header.Get("Accept"), "application/vnd.oci.image.index.v1+json")

		w.Header().Set(HeaderContentDigest, testDigest.String())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"schemaVersion":2}`))
	})

	dgst, err := c.ResolveDigest(context.Background(), "library/nginx", "latest")

	require.NoError(t, err)
	assert.Equal(t, testDigest, dgst)
}

func TestClient_ResolveDigest_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		header     string
		wantStatus int
	}{
		{name: "not found", status: http.StatusNotFound, wantStatus: http.StatusNotFound},
		{name: "server error", status: http.StatusInternalServerError, wantStatus: http.StatusInternalServerError},
		{name: "unauthorized", status: http.StatusUnauthorized, wantStatus: http.StatusUnauthorized},
		{name: "missing digest header", status: http.StatusOK, wantStatus: http.StatusOK},
		{name: "malformed digest header", status: http.StatusOK, header: "sha256:abc", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.header != "" {
					w.Header().Set(HeaderContentDigest, tt.header)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"errors":[{"code":"MANIFEST_UNKNOWN","message":"manifest unknown"}]}`))
			})

			dgst, err := c.ResolveDigest(context.Background(), "nginx", "missing")

			assert.Empty(t, dgst)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrManifestNotFound))

			var regErr *domain.RegistryError
			require.ErrorAs(t, err, &regErr)
			assert.Equal(t, tt.wantStatus, regErr.StatusCode)
			assert.Equal(t, "resolve", regErr.Op)
		})
	}
}

func TestClient_ResolveDigest_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(srv.URL, WithLogger(logger.Discard()))
	require.NoError(t, err)
	srv.Close()

	_, err = c.ResolveDigest(context.Background(), "nginx", "latest")

	var regErr *domain.RegistryError
	require.ErrorAs(t, err, &regErr)
	assert.Zero(t, regErr.StatusCode)
	assert.False(t, errors.Is(err, domain.ErrManifestNotFound))
}

func TestClient_DeleteByDigest(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	})

	err := c.DeleteByDigest(context.Background(), "nginx", testDigest)

	require.NoError(t, err)
	assert.Equal(t, "/v2/nginx/manifests/"+testDigest.String(), gotPath)
}

func TestClient_DeleteByDigest_OnlyAcceptedSucceeds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "ok is not accepted", status: http.StatusOK},
		{name: "not found", status: http.StatusNotFound, body: `{"errors":[{"code":"MANIFEST_UNKNOWN","message":"manifest unknown"}]}`, want: "MANIFEST_UNKNOWN: manifest unknown"},
		{name: "deletes disabled", status: http.StatusMethodNotAllowed, body: `{"errors":[{"code":"UNSUPPORTED","message":"The operation is unsupported."}]}`, want: "UNSUPPORTED"},
		{name: "server error", status: http.StatusInternalServerError, body: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := c.DeleteByDigest(context.Background(), "nginx", testDigest)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrDeleteFailed)
			var regErr *domain.RegistryError
			require.ErrorAs(t, err, &regErr)
			assert.Equal(t, tt.status, regErr.StatusCode)
			if tt.want != "" {
				assert.True(t, strings.Contains(err.Error(), tt.want), err.Error())
			}
		})
	}
}

func TestClient_Ping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "ok", status: http.StatusOK},
		{name: "auth challenge", status: http.StatusUnauthorized},
		{name: "not a registry", status: http.StatusNotFound, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v2/", r.URL.Path)
				w.WriteHeader(tt.status)
			})

			err := c.Ping(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClient_Catalog(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v2/":
			w.WriteHeader(http.StatusOK)
		case "/v2/_catalog":
			_, _ = w.Write([]byte(`{"repositories":["redis","nginx"]}`))
		case "/v2/nginx/tags/list":
			_, _ = w.Write([]byte(`{"name":"nginx","tags":["latest","1.27"]}`))
		default:
			http.NotFound(w, r)
		}
	})

	repos, err := c.ListRepositories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"nginx", "redis"}, repos)

	tags, err := c.ListTags(context.Background(), "nginx")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.27", "latest"}, tags)
}
