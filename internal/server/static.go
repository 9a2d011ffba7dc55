package server

import (
	"net/http"
	"os"
	"path/filepath"
)

// spaHandler serves the built frontend, falling back to index.html for paths
// the client-side router owns.
func spaHandler(root string) http.Handler {
	fs := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := filepath.Join(root, filepath.Clean(r.URL.Path))
		if st, err := os.Stat(p); err != nil || (st.IsDir() && r.URL.Path != "/") {
			http.ServeFile(w, r, filepath.Join(root, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	})
}
