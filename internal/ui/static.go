package ui

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// staticCandidates are checked in order for a built front end
var staticCandidates = []string{
	filepath.Join("client", "build"),
	"build",
	"public",
}

// FindStaticDir returns the first directory holding an index.html, preferring
// explicit. It returns "" when there is no built front end.
func FindStaticDir(explicit string) string {
	dirs := staticCandidates
	if explicit != "" {
		dirs = append([]string{explicit}, dirs...)
	}

	for _, dir := range dirs {
		if fi, err := os.Stat(filepath.Join(dir, "index.html")); err == nil && !fi.IsDir() {
			return dir
		}
	}
	return ""
}

// SPA serves files from dir and falls back to index.html for client-side routes
func SPA(dir string) http.Handler {
	root := http.Dir(dir)
	files := http.FileServer(root)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		if name != "/" && !strings.HasSuffix(name, "/") {
			if f, err := root.Open(name); err == nil {
				fi, statErr := f.Stat()
				_ = f.Close()
				if statErr == nil && !fi.IsDir() {
					files.ServeHTTP(w, r)
					return
				}
			}
		}

		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	})
}
