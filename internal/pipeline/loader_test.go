package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/anchora/internal/model"
)

func testLoader() *Loader {
	return NewLoader(model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test-agent", MaxBodyBytes: 1 << 20})
}

func noSleep(t *testing.T) {
	t.Helper()
	orig := loadSleepFunc
	loadSleepFunc = func(d time.Duration) {}
	t.Cleanup(func() { loadSleepFunc = orig })
}

func TestLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "support-bot.txt")
	require.NoError(t, os.WriteFile(path, []byte("Greet the user warmly."), 0o644))

	doc, err := testLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Greet the user warmly.", doc.Text)
	assert.Equal(t, "support-bot", doc.Subject)
	assert.Equal(t, path, doc.Source)
}

func TestLoader_Stdin(t *testing.T) {
	l := testLoader()
	l.stdin = strings.NewReader("from stdin")

	doc, err := l.Load(context.Background(), "-")
	require.NoError(t, err)
	assert.Equal(t, "from stdin", doc.Text)
	assert.Equal(t, "stdin", doc.Subject)
}

func TestLoader_TooLarge(t *testing.T) {
	l := NewLoader(model.HTTPConfig{MaxBodyBytes: 4})
	l.stdin = strings.NewReader("12345")

	_, err := l.Load(context.Background(), "-")
	assert.ErrorIs(t, err, ErrTooLarge)

	l.stdin = strings.NewReader("1234")
	doc, err := l.Load(context.Background(), "-")
	require.NoError(t, err)
	assert.Equal(t, "1234", doc.Text)
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := testLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestLoader_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = fmt.Fprint(w, "<rules>Be kind.</rules>")
	}))
	defer server.Close()

	doc, err := testLoader().Load(context.Background(), server.URL+"/prompts/support_bot.txt")
	require.NoError(t, err)
	assert.Equal(t, "<rules>Be kind.</rules>", doc.Text)
	assert.Equal(t, "support bot", doc.Subject)
}

func TestLoader_TransientThenSuccess(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, "OK")
	}))
	defer server.Close()

	doc, err := testLoader().Load(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "OK", doc.Text)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestLoader_PermanentFailure(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testLoader().Load(context.Background(), server.URL)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, "unexpected status: 404 Not Found", statusErr.Error())
	assert.Equal(t, int32(1), attempts.Load())
}

func TestLoader_AllRetriesExhausted(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := testLoader().Load(context.Background(), server.URL)
	assert.Error(t, err)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestIsRetryableLoadError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"503", &StatusError{Code: 503}, true},
		{"500", &StatusError{Code: 500}, true},
		{"429", &StatusError{Code: 429}, true},
		{"404", &StatusError{Code: 404}, false},
		{"403 wrapped", fmt.Errorf("load: %w", &StatusError{Code: 403}), false},
		{"too large", ErrTooLarge, false},
		{"plain", errors.New("read body: unexpected EOF"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, isRetryableLoadError(tt.err))
		})
	}
}

func TestSubjectFromURL(t *testing.T) {
	assert.Equal(t, "example.com", subjectFromURL("https://example.com/"))
	assert.Equal(t, "support bot", subjectFromURL("https://example.com/p/support-bot.md"))
}

func TestLoader_RobotsDisallowed(t *testing.T) {
	var docHits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
			return
		}
		atomic.AddInt32(&docHits, 1)
		_, _ = w.Write([]byte("secret"))
	}))
	defer srv.Close()

	l := NewLoader(model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "anchora/0.1", RespectRobots: true})

	_, err := l.Load(context.Background(), srv.URL+"/private/prompt.txt")
	assert.ErrorIs(t, err, ErrDisallowed)
	assert.Equal(t, int32(0), atomic.LoadInt32(&docHits))

	doc, err := l.Load(context.Background(), srv.URL+"/public/prompt.txt")
	require.NoError(t, err)
	assert.Equal(t, "secret", doc.Text)
}
