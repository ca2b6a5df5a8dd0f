package reporthttp

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers report routes on the provided router. Export
// rendering is rate limited per client since a single export fans out a
// full upstream fetch plus a file render.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/{name}", h.handleReport)
		r.Get("/{name}/config", h.handleConfig)
		r.Put("/{name}/config", h.handleConfigSave)

		r.Group(func(r chi.Router) {
			r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
			r.Get("/{name}/export.{format}", h.handleExport)
			r.Post("/{name}/export", h.handleExportAsync)
		})
	})
	r.Get("/exports/{id}", h.handleExportDownload)
}
