package handler

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
)

// PagesHandler serves the frontend's static HTML pages.
//
// The frontend is a set of plain HTML files in a configured directory; each
// app route maps to one file. There is no templating — the files are served
// verbatim, and the pages talk to the API with fetch(). Keeping the mapping
// explicit (instead of serving the whole directory at /) means a typo'd URL
// is a 404, not a directory listing or a stray file.
type PagesHandler struct {
	dir    string
	logger *slog.Logger
}

// pageRoutes maps URL paths to files under the frontend directory.
var pageRoutes = map[string]string{
	"/":               "main.html",
	"/signup":         "signUp.html",
	"/dashboard":      "userDashboard.html",
	"/citations":      "citations.html",
	"/add-vehicle":    "addVehicle.html",
	"/update-parking": "updateParking.html",
}

// NewPagesHandler creates a PagesHandler serving files from dir. A missing
// directory is logged but not fatal — the API endpoints work without the
// frontend, which is how the backend runs in integration tests.
func NewPagesHandler(dir string, logger *slog.Logger) *PagesHandler {
	if _, err := os.Stat(dir); err != nil {
		logger.Warn("frontend directory not found — page routes will 404",
			slog.String("dir", dir),
			slog.String("error", err.Error()),
		)
	}
	return &PagesHandler{dir: dir, logger: logger}
}

// Routes returns the page-path → file mapping so the server can register
// one GET route per page.
func (h *PagesHandler) Routes() map[string]string {
	return pageRoutes
}

// ServePage returns a handler that serves the named file from the frontend
// directory.
//
// http.ServeFile handles Content-Type, range requests, and If-Modified-Since
// for us. We resolve the path once up front; file names come from the
// hardcoded route table, never from the URL, so there is no traversal risk.
func (h *PagesHandler) ServePage(file string) http.HandlerFunc {
	path := filepath.Join(h.dir, file)
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(path); err != nil {
			h.logger.Error("page file missing",
				slog.String("file", path),
				slog.String("route", r.URL.Path),
			)
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	}
}

// Assets returns a handler serving the rest of the frontend directory
// (CSS, JS, images) under a stripped prefix.
func (h *PagesHandler) Assets(prefix string) http.Handler {
	return http.StripPrefix(prefix, http.FileServer(http.Dir(h.dir)))
}
