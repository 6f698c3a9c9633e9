package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed index.html static/*
var embedded embed.FS

func EmbeddedFS() fs.FS {
	return embedded
}

// Register serves the entry page at / and the browser assets under /static/.
func Register(r chi.Router) {
	files := http.FileServer(http.FS(embedded))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, embedded, "index.html")
	})
	r.Handle("/static/*", files)
}
