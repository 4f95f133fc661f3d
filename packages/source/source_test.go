package source

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFetcher(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "myrepo", "api")
	require.NoError(t, os.MkdirAll(repoDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "openapi.yaml"), []byte("openapi: 3.0.0"), 0o644))

	f := NewLocalFetcher(root)

	content, err := f.FetchFile("myrepo", "api/openapi.yaml")
	require.NoError(t, err)
	assert.Equal(t, "openapi: 3.0.0", content)

	_, err = f.FetchFile("myrepo", "missing.yaml")
	assert.Error(t, err)
}

func TestLocalFetcher_CleansTraversal(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "repo"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.txt"), []byte("x"), 0o644))

	f := NewLocalFetcher(root)
	_, err := f.FetchFile("repo", "../secret.txt")
	assert.Error(t, err)
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/myrepo/schema.graphql" {
			_, _ = w.Write([]byte("type Query { ping: String }"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL + "/")

	content, err := f.FetchFile("myrepo", "/schema.graphql")
	require.NoError(t, err)
	assert.Equal(t, "type Query { ping: String }", content)

	_, err = f.FetchFile("myrepo", "nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestKindHint(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"schema.graphql", "graphql"},
		{"schema.gql", "graphql"},
		{"service.proto", "grpc"},
		{"api.postman_collection.json", "postman"},
		{"shop.postman.json", "postman"},
		{"openapi.yaml", "openapi"},
		{"swagger.json", "openapi"},
		{"docs/API.GraphQL", "graphql"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, KindHint(tt.path))
		})
	}
}
