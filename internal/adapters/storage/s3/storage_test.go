package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
	_, err = New(context.Background(), Config{Bucket: "b", AccessKey: "solo"})
	assert.Error(t, err)
}

func TestSaveAndDelete_PathStyle(t *testing.T) {
	var mu sync.Mutex
	objects := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			b, _ := io.ReadAll(r.Body)
			objects[r.URL.Path] = string(b)
			w.Header().Set("ETag", `"etag"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			delete(objects, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()

	s, err := New(context.Background(), Config{Bucket: "junimo", Endpoint: srv.URL, AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)

	url, err := s.Save(context.Background(), "productos/JM001.png", strings.NewReader("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/junimo/productos/JM001.png", url)

	mu.Lock()
	_, ok := objects["/junimo/productos/JM001.png"]
	mu.Unlock()
	assert.True(t, ok)

	require.NoError(t, s.Delete(context.Background(), url))
	mu.Lock()
	assert.Empty(t, objects)
	mu.Unlock()

	assert.NoError(t, s.Delete(context.Background(), "/uploads/otro.png"))
}
