package web

import (
	"io/fs"
	"net/http"
	"strings"
)

// StaticPrefix is the URL prefix static assets are served under.
const StaticPrefix = "/static/"

// StaticHandler serves files from the static/ directory of fsys. It never
// lists directories and answers 404 for paths that try to leave the root.
func StaticHandler(fsys fs.FS) (http.Handler, error) {
	sub, err := fs.Sub(fsys, "static")
	if err != nil {
		return nil, err
	}
	files := http.FileServerFS(sub)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rel, ok := strings.CutPrefix(r.URL.Path, StaticPrefix)
		if !ok || !safePath(rel) {
			http.NotFound(w, r)
			return
		}

		info, err := fs.Stat(sub, rel)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		r2 := r.Clone(r.Context())
		r2.URL.Path = "/" + rel
		r2.URL.RawPath = ""
		files.ServeHTTP(w, r2)
	}), nil
}

// safePath reports whether rel is a plain relative path inside the root.
func safePath(rel string) bool {
	if rel == "" || strings.HasPrefix(rel, "/") {
		return false
	}
	if strings.ContainsAny(rel, "\\\x00") {
		return false
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." || seg == "." || seg == "" {
			return false
		}
	}
	return fs.ValidPath(rel)
}
