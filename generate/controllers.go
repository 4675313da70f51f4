package generate

import (
	"net/http"

	"relay/model"
	"relay/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{Svc: svc} }

// Generate handles POST /generate.
func (h *Handler) Generate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.GenerationRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, err)
			return
		}
		body, err := h.Svc.Generate(r.Context(), req)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.Raw(w, http.StatusOK, body)
	}
}
