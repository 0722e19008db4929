package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/regdash/regdash/internal/boundaries/out"
	"github.com/regdash/regdash/pkg/version"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) ListRepositories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockCatalog) ListTags(ctx context.Context, repo string) ([]string, error) {
	args := m.Called(ctx, repo)
	return args.Get(0).([]string), args.Error(1)
}

func runRepos(t *testing.T, catalog *mockCatalog, args ...string) (string, error) {
	t.Helper()
	var gotURL string
	cmd := newReposCmd(func(registryURL string) (out.CatalogRegistry, error) {
		gotURL = registryURL
		return catalog, nil
	})
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--registry", "http://registry.test:5000"}, args...))

	err := cmd.Execute()
	assert.Equal(t, "http://registry.test:5000", gotURL)
	return buf.String(), err
}

func TestReposCmd_ListsRepositories(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("ListRepositories", mock.Anything).Return([]string{"alpine", "nginx"}, nil)

	output, err := runRepos(t, catalog)

	require.NoError(t, err)
	assert.Contains(t, output, "Repositories")
	assert.Contains(t, output, "alpine")
	assert.Contains(t, output, "nginx")
	catalog.AssertExpectations(t)
}

func TestReposCmd_EmptyCatalog(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("ListRepositories", mock.Anything).Return([]string{}, nil)

	output, err := runRepos(t, catalog)

	require.NoError(t, err)
	assert.Contains(t, output, "No repositories")
}

func TestReposCmd_ListsTags(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("ListTags", mock.Anything, "nginx").Return([]string{"1.27", "latest"}, nil)

	output, err := runRepos(t, catalog, "nginx")

	require.NoError(t, err)
	assert.Contains(t, output, "2 tags")
	assert.Contains(t, output, "latest")
	catalog.AssertExpectations(t)
}

func TestReposCmd_Error(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("ListRepositories", mock.Anything).Return([]string(nil), errors.New("list catalog: connection refused"))

	_, err := runRepos(t, catalog)

	assert.ErrorContains(t, err, "connection refused")
}

func TestVersionCmd(t *testing.T) {
	version.Set("v0.3.0", "abc123", "2026-10-01")

	cmd := newVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "regdash v0.3.0")
	assert.Contains(t, buf.String(), "abc123")
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"serve", "version", "repos"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}
