package payment

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"relay/config"
	"relay/events"
	"relay/model"
	"relay/relayerr"
)

// Service holds the order and verification logic. It keeps no per-request
// state, so one instance serves every request.
type Service struct {
	Creds      config.Credentials
	Orders     OrdersAPI
	Events     events.Publisher
	NewReceipt func() string
	Log        zerolog.Logger
}

func NewService(cfg *config.Config, orders OrdersAPI, pub events.Publisher, log zerolog.Logger) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		Creds:      cfg.Credentials,
		Orders:     orders,
		Events:     pub,
		NewReceipt: NewReceipt,
		Log:        log.With().Str("component", "payment").Logger(),
	}
}

// NewReceipt returns "receipt_" plus 32 hex characters from a random UUID,
// 40 characters in total, which is the provider's receipt limit.
func NewReceipt() string {
	return "receipt_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *Service) CreateOrder(ctx context.Context, req model.OrderRequest) (model.OrderDescriptor, error) {
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if req.Currency == "" {
		req.Currency = model.DefaultCurrency
	}
	if msg := model.Validate(req); msg != "" {
		return nil, relayerr.Validation(msg)
	}
	if !s.Creds.HasPayment() {
		return nil, relayerr.Configuration("Razorpay keys not configured.")
	}

	create := model.OrderCreate{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  s.NewReceipt(),
	}
	order, err := s.Orders.CreateOrder(ctx, create)
	if err != nil {
		s.Log.Error().Err(err).Str("receipt", create.Receipt).Msg("create order failed")
		return nil, err
	}

	var summary model.OrderSummary
	if err := json.Unmarshal(order, &summary); err != nil {
		s.Log.Warn().Err(err).Str("receipt", create.Receipt).Msg("order descriptor is not an object")
	}
	s.Log.Info().
		Str("order_id", summary.ID).
		Int64("amount", create.Amount).
		Str("currency", create.Currency).
		Str("receipt", create.Receipt).
		Msg("order created")

	if summary.ID == "" {
		s.Log.Warn().Str("receipt", create.Receipt).Msg("order descriptor has no id, skipping event")
		return order, nil
	}
	s.publish(ctx, events.Event{
		Type:     events.TypeOrderCreated,
		OrderID:  summary.ID,
		Amount:   create.Amount,
		Currency: create.Currency,
		Receipt:  create.Receipt,
	})
	return order, nil
}

// VerifyPayment checks the callback signature. A nil error with false means
// the request was well-formed but the signature did not match.
func (s *Service) VerifyPayment(ctx context.Context, req model.PaymentVerificationRequest) (bool, error) {
	if msg := model.Validate(req); msg != "" {
		return false, relayerr.Validation(msg)
	}
	// An empty HMAC key would let anyone mint valid signatures.
	if s.Creds.PaymentKeySecret == "" {
		return false, relayerr.Configuration("Razorpay keys not configured.")
	}

	ok := Verify(s.Creds.PaymentKeySecret, req.OrderID, req.PaymentID, req.Signature)

	evType := events.TypePaymentVerified
	logEvent := s.Log.Info()
	if !ok {
		evType = events.TypePaymentVerificationFailed
		logEvent = s.Log.Warn()
	}
	logEvent.
		Str("order_id", req.OrderID).
		Str("payment_id", req.PaymentID).
		Bool("verified", ok).
		Msg("payment signature checked")

	s.publish(ctx, events.Event{
		Type:      evType,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
	})
	return ok, nil
}

// publish is best effort; a broker outage never changes the HTTP outcome.
func (s *Service) publish(ctx context.Context, ev events.Event) {
	if err := s.Events.Publish(ctx, ev); err != nil {
		s.Log.Warn().Err(err).Str("type", ev.Type).Str("order_id", ev.OrderID).Msg("publish event failed")
	}
}
