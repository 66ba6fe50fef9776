package router

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// spaHandler serves files from a built client bundle. Paths that do not name
// a file get the bundle's index.html so the client can route them.
type spaHandler struct {
	root       http.Dir
	indexPath  string
	fileServer http.Handler
}

func newSPAHandler(dir string) *spaHandler {
	return &spaHandler{
		root:       http.Dir(dir),
		indexPath:  filepath.Join(dir, "index.html"),
		fileServer: http.FileServer(http.Dir(dir)),
	}
}

func (h *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	if f, err := h.root.Open(name); err == nil {
		info, statErr := f.Stat()
		_ = f.Close()
		if statErr == nil && !info.IsDir() {
			h.fileServer.ServeHTTP(w, r)
			return
		}
	}

	if _, err := os.Stat(h.indexPath); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, h.indexPath)
}
