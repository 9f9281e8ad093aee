// Package httpmux mounts admin route groups on the root mux.
package httpmux

import (
	"io/fs"
	"mime"
	"net/http"
	"path"

	routepath "github.com/louisbranch/autofix/internal/services/admin/routepath"
)

// MountStatic wires static asset serving into the root mux.
func MountStatic(rootMux *http.ServeMux, staticFS fs.FS) {
	if rootMux == nil || staticFS == nil {
		return
	}
	fileServer := http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(staticFS)))
	rootMux.Handle(routepath.PatternStatic, withStaticMime(fileServer))
}

// MountRoot redirects the bare root to target.
func MountRoot(rootMux *http.ServeMux, target string) {
	if rootMux == nil || target == "" {
		return
	}
	rootMux.HandleFunc(routepath.PatternRoot, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusFound)
	})
}

// withStaticMime sets Content-Type from the file extension before serving.
func withStaticMime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType := mime.TypeByExtension(path.Ext(r.URL.Path)); contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
