package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// staticFiles serves dir. A path without extension falls back to "<path>.html".
func staticFiles(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean("/" + r.URL.Path)
		if p != "/" && path.Ext(p) == "" {
			if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(p))); os.IsNotExist(err) {
				if info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(p+".html"))); err == nil && !info.IsDir() {
					r2 := r.Clone(r.Context())
					r2.URL.Path = p + ".html"
					files.ServeHTTP(w, r2)
					return
				}
			}
		}
		files.ServeHTTP(w, r)
	})
}
