package generate

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, svc *Service) {
	h := NewHandler(svc)

	r.Post("/generate", h.Generate())
}
