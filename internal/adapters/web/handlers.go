package web

import (
	"io/fs"
	"net/http"

	"invoice-agent/internal/app"
	webui "invoice-agent/web"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the embedded static file server.
type Handler struct {
	svc        app.ApplicationService
	fileServer http.Handler
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	staticFS, err := fs.Sub(webui.Static, "static")
	if err != nil {
		panic("web/static embed sub-FS failed: " + err.Error())
	}

	h := &Handler{
		svc:        svc,
		fileServer: http.FileServer(http.FS(staticFS)),
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)

	// File upload: body limit is managed inside the handler (multipart).
	r.Post("/api/uploads", h.uploadFile)

	// All other endpoints: 1 MB body limit to prevent unbounded request abuse.
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/records", h.listRecords)
		r.Post("/api/records/{kind}", h.editRecord)
		r.Post("/api/clear", h.clearData)
	})

	// Browser UI served from the embedded static directory.
	r.Get("/", h.indexPage)
	r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
		http.StripPrefix("/static", h.fileServer).ServeHTTP(w, req)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handler) indexPage(w http.ResponseWriter, r *http.Request) {
	r.URL.Path = "/index.html"
	h.fileServer.ServeHTTP(w, r)
}
