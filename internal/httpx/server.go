package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// ServeUploads exposes the upload directory under /uploads/.
func ServeUploads(r *chi.Mux, dir string) {
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
	r.Get("/uploads/*", fs.ServeHTTP)
}
