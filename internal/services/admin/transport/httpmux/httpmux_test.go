package httpmux

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func TestMountStaticServesAssets(t *testing.T) {
	t.Parallel()

	rootMux := http.NewServeMux()
	staticFS := fstest.MapFS{
		"app.css": &fstest.MapFile{Data: []byte("body{}")},
	}
	MountStatic(rootMux, staticFS)

	req := httptest.NewRequest(http.MethodGet, "/static/app.css", nil)
	rec := httptest.NewRecorder()
	rootMux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Fatalf("content type = %q", ct)
	}
	if body := rec.Body.String(); body != "body{}" {
		t.Fatalf("body = %q", body)
	}
}

func TestMountRootRedirectsOnlyBareRoot(t *testing.T) {
	t.Parallel()

	rootMux := http.NewServeMux()
	MountRoot(rootMux, "/vehicles")

	rec := httptest.NewRecorder()
	rootMux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/vehicles" {
		t.Fatalf("root = %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	rootMux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown path status = %d, want 404", rec.Code)
	}
}

func TestMountNoopsOnNilInputs(t *testing.T) {
	t.Parallel()

	rootMux := http.NewServeMux()
	MountStatic(nil, fstest.MapFS{})
	MountStatic(rootMux, fs.FS(nil))
	MountRoot(nil, "/vehicles")
	MountRoot(rootMux, "")
}
