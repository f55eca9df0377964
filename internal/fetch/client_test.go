package fetch

import (
	"compress/gzip"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/arrowtools/arrowcat/internal/config"
	"github.com/arrowtools/arrowcat/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, string) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.DefaultConfig(), testLogger)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return client, srv.URL
}

func TestGet(t *testing.T) {
	client, url := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a user agent header")
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>ok</body></html>"))
	})

	resp, err := client.Get(context.Background(), url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !resp.IsSuccess() {
		t.Errorf("status: %d", resp.StatusCode)
	}
	if string(resp.Body) != "<html><body>ok</body></html>" {
		t.Errorf("body: %q", resp.Body)
	}
}

func TestGetDecompressesGzip(t *testing.T) {
	client, url := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte(`{"compressed":true}`))
		gz.Close()
	})

	resp, err := client.Get(context.Background(), url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(resp.Body) != `{"compressed":true}` {
		t.Errorf("expected decompressed body, got %q", resp.Body)
	}
	if !resp.LooksLikeJSON() {
		t.Error("payload should be recognized as JSON")
	}
}

func TestGetErrorStatus(t *testing.T) {
	client, url := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	_, err := client.Get(context.Background(), url)
	if err == nil {
		t.Fatal("expected error for 404")
	}

	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %T", err)
	}
	if fe.StatusCode != http.StatusNotFound {
		t.Errorf("status code: %d", fe.StatusCode)
	}
}

func TestPostForm(t *testing.T) {
	client, serverURL := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostFormValue("Brand"); got != "Arrow" {
			t.Errorf("Brand: %q", got)
		}
		w.Write([]byte("[]"))
	})

	resp, err := client.PostForm(context.Background(), serverURL, map[string][]string{
		"UserId": {""},
		"Brand":  {"Arrow"},
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if !resp.LooksLikeJSON() {
		t.Error("expected JSON-looking payload")
	}
}

func TestGetCancelled(t *testing.T) {
	client, url := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Get(ctx, url); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
