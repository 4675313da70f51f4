package payment

import (
	"net/http"

	"relay/model"
	"relay/relayerr"
	"relay/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{Svc: svc} }

// CreateOrder handles POST /create-order.
func (h *Handler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.OrderRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, err)
			return
		}
		order, err := h.Svc.CreateOrder(r.Context(), req)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.Raw(w, http.StatusOK, order)
	}
}

// VerifyPayment handles POST /verify-payment. Every response uses the
// {status, message} shape rather than {error}.
func (h *Handler) VerifyPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.PaymentVerificationRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			writeVerifyError(w, err)
			return
		}
		ok, err := h.Svc.VerifyPayment(r.Context(), req)
		if err != nil {
			writeVerifyError(w, err)
			return
		}
		if !ok {
			respond.JSON(w, http.StatusBadRequest, model.VerificationResponse{
				Status:  model.VerificationFailure,
				Message: "invalid signature",
			})
			return
		}
		respond.JSON(w, http.StatusOK, model.VerificationResponse{
			Status:    model.VerificationSuccess,
			OrderID:   req.OrderID,
			PaymentID: req.PaymentID,
		})
	}
}

func writeVerifyError(w http.ResponseWriter, err error) {
	respond.JSON(w, relayerr.StatusOf(err), model.VerificationResponse{
		Status:  model.VerificationFailure,
		Message: relayerr.MessageOf(err),
	})
}
