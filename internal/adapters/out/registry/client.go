// Package registry implements the upstream registry adapter: manifest digest
// resolution and deletion over the Docker Registry HTTP API v2.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/opencontainers/go-digest"

	"github.com/regdash/regdash/internal/domain"
)

// DefaultTimeout bounds a single registry request.
const DefaultTimeout = 30 * time.Second

// HeaderContentDigest is the response header carrying the manifest digest.
const HeaderContentDigest = "Docker-Content-Digest"

// manifestAccept lists the manifest media types the digest is resolved for.
var manifestAccept = strings.Join([]string{
	"application/vnd.docker.distribution.manifest.v2+json",
	"application/vnd.docker.distribution.manifest.list.v2+json",
	"application/vnd.oci.image.manifest.v1+json",
	"application/vnd.oci.image.index.v1+json",
}, ", ")

// maxErrorBody caps how much of an error response body is read.
const maxErrorBody = 64 * 1024

// Client talks to the upstream registry.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *log.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

// New creates a registry client for baseURL (e.g. http://localhost:5000).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid registry URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid registry URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid registry URL %q: missing host", baseURL)
	}

	c := &Client{baseURL: u}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: DefaultTimeout}
	}
	if c.log == nil {
		c.log = log.Default()
	}
	return c, nil
}

func (c *Client) manifestURL(repo, reference string) string {
	return c.baseURL.JoinPath("v2", repo, "manifests", reference).String()
}

// ResolveDigest reads the manifest of repo:tag and returns the digest the
// registry reports for it. A non-2xx answer or a missing digest header is
// reported as domain.ErrManifestNotFound.
func (c *Client) ResolveDigest(ctx context.Context, repo, tag string) (digest.Digest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.manifestURL(repo, tag), nil)
	if err != nil {
		return "", fmt.Errorf("build manifest request: %w", err)
	}
	req.Header.Set("Accept", manifestAccept)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &domain.RegistryError{Op: "resolve", Repository: repo, Reference: tag, Err: err}
	}
	defer drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug("manifest fetch failed", "repo", repo, "tag", tag, "status", resp.StatusCode, "upstream", upstreamError(resp.Body))
		return "", &domain.RegistryError{
			Op:         "resolve",
			Repository: repo,
			Reference:  tag,
			StatusCode: resp.StatusCode,
			Err:        domain.ErrManifestNotFound,
		}
	}

	header := resp.Header.Get(HeaderContentDigest)
	if header == "" {
		return "", &domain.RegistryError{
			Op:         "resolve",
			Repository: repo,
			Reference:  tag,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: no %s header", domain.ErrManifestNotFound, HeaderContentDigest),
		}
	}

	dgst, err := digest.Parse(header)
	if err != nil {
		return "", &domain.RegistryError{
			Op:         "resolve",
			Repository: repo,
			Reference:  tag,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s header %q: %v", domain.ErrManifestNotFound, HeaderContentDigest, header, err),
		}
	}

	c.log.Debug("manifest resolved", "repo", repo, "tag", tag, "digest", dgst)
	return dgst, nil
}

// DeleteByDigest deletes the manifest repo@dgst. Only 202 Accepted counts as
// success; any other answer is reported as domain.ErrDeleteFailed.
func (c *Client) DeleteByDigest(ctx context.Context, repo string, dgst digest.Digest) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.manifestURL(repo, dgst.String()), nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.RegistryError{Op: "delete", Repository: repo, Reference: dgst.String(), Err: err}
	}
	defer drain(resp.Body)

	if resp.StatusCode != http.StatusAccepted {
		upstream := upstreamError(resp.Body)
		c.log.Warn("manifest delete rejected", "repo", repo, "digest", dgst, "status", resp.StatusCode, "upstream", upstream)
		err := domain.ErrDeleteFailed
		if upstream != "" {
			err = fmt.Errorf("%w: %s", domain.ErrDeleteFailed, upstream)
		}
		return &domain.RegistryError{
			Op:         "delete",
			Repository: repo,
			Reference:  dgst.String(),
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	c.log.Info("manifest deleted", "repo", repo, "digest", dgst)
	return nil
}

// Ping checks that the registry answers on its API base endpoint. An
// authentication challenge still counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.JoinPath("v2/").String(), nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("registry ping: %w", err)
	}
	defer drain(resp.Body)

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusUnauthorized {
		return nil
	}
	return fmt.Errorf("registry ping: unexpected status %d", resp.StatusCode)
}

// errorEnvelope is the registry API error body.
type errorEnvelope struct {
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// upstreamError summarises a registry error body, or returns "".
func upstreamError(body io.Reader) string {
	var env errorEnvelope
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&env); err != nil {
		return ""
	}
	parts := make([]string, 0, len(env.Errors))
	for _, e := range env.Errors {
		if e.Message != "" {
			parts = append(parts, e.Code+": "+e.Message)
		} else {
			parts = append(parts, e.Code)
		}
	}
	return strings.Join(parts, "; ")
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxErrorBody))
	_ = body.Close()
}
