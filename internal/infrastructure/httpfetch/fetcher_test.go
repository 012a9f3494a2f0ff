package httpfetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
)

func TestFetcherGetDecodesBodies(t *testing.T) {
	t.Parallel()

	const payload = "<rss><channel><title>robots</title></channel></rss>"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("unexpected user agent %q", ua)
		}
		switch r.URL.Path {
		case "/br":
			var buf bytes.Buffer
			bw := brotli.NewWriter(&buf)
			_, _ = bw.Write([]byte(payload))
			_ = bw.Close()
			w.Header().Set("Content-Encoding", "br")
			_, _ = w.Write(buf.Bytes())
		case "/gzip":
			var buf bytes.Buffer
			gw := gzip.NewWriter(&buf)
			_, _ = gw.Write([]byte(payload))
			_ = gw.Close()
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write(buf.Bytes())
		default:
			_, _ = w.Write([]byte(payload))
		}
	}))
	defer server.Close()

	f := New(&http.Client{Transport: &http.Transport{DisableCompression: true}}, "test-agent")

	for _, path := range []string{"/plain", "/gzip", "/br"} {
		body, err := f.Get(context.Background(), server.URL+path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if string(body) != payload {
			t.Fatalf("%s: unexpected body %q", path, body)
		}
	}
}

func TestFetcherGetRejectsNonOK(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := New(server.Client(), "").Get(context.Background(), server.URL)
	if err == nil {
		t.Fatalf("expected error for 403")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Fatalf("error should carry status: %v", err)
	}
}

func TestFetcherRejectsOversizedBody(t *testing.T) {
	t.Parallel()

	gzipped := func(n int) []byte {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		_, _ = gw.Write(bytes.Repeat([]byte("a"), n))
		_ = gw.Close()
		return buf.Bytes()
	}
	exact, over := gzipped(maxBodyBytes), gzipped(maxBodyBytes+1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		if r.URL.Path == "/over" {
			_, _ = w.Write(over)
			return
		}
		_, _ = w.Write(exact)
	}))
	defer server.Close()

	f := New(nil, "")
	body, err := f.Get(context.Background(), server.URL+"/exact")
	if err != nil {
		t.Fatalf("exact limit: %v", err)
	}
	if len(body) != maxBodyBytes {
		t.Fatalf("expected %d bytes, got %d", maxBodyBytes, len(body))
	}

	if _, err := f.Get(context.Background(), server.URL+"/over"); !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}
}
