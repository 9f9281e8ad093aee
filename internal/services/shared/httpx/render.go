package httpx

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
	log "github.com/sirupsen/logrus"
)

// RenderPage renders fragment for htmx requests and full otherwise, with the
// given status. A nil fragment falls back to full.
// Rendering is buffered; a render error yields a 500 with no partial body.
func RenderPage(w http.ResponseWriter, r *http.Request, status int, fragment, full templ.Component) {
	target := full
	if IsHTMXRequest(r) && fragment != nil {
		target = fragment
	}
	if target == nil {
		target = fragment
	}
	if target == nil {
		w.WriteHeader(status)
		return
	}

	var buf bytes.Buffer
	if err := target.Render(r.Context(), &buf); err != nil {
		log.WithField("path", r.URL.Path).Errorf("render page: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
