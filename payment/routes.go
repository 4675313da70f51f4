package payment

import (
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	h := NewHandler(svc)

	r.Post("/create-order", h.CreateOrder())
	r.Post("/verify-payment", h.VerifyPayment())
}
