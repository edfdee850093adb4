package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(r chi.Router, h *ConvertHandler, ratePerMinute int) {
	r.With(httputil.RecoverMiddleware).Get("/", h.Page)
	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})

	// --- конвертация ---
	r.Group(func(cr chi.Router) {
		cr.Use(httputil.RecoverMiddleware)
		if ratePerMinute > 0 {
			cr.Use(httprate.LimitByIP(ratePerMinute, time.Minute))
		}

		cr.Post("/convert", h.Convert)
		cr.Post("/convert-zip", h.ConvertZip)
		cr.Post("/extract-text", h.ExtractText)
	})
}
