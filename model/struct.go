package model

import "encoding/json"

type GenerationRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// geminiPart and friends shape the generateContent request body.
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type GeminiPayload struct {
	Contents []geminiContent `json:"contents"`
}

// NewGeminiPayload wraps a prompt as a single-part user turn.
func NewGeminiPayload(prompt string) GeminiPayload {
	return GeminiPayload{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}}
}

const DefaultCurrency = "INR"

// OrderRequest is the client body for /create-order. Amount is in minor
// currency units (paise for INR).
type OrderRequest struct {
	Amount   int64  `json:"amount" validate:"required,gt=0"`
	Currency string `json:"currency" validate:"len=3,alpha"`
}

// OrderCreate is what gets sent to the payment provider.
type OrderCreate struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// OrderDescriptor is the provider's order, relayed byte for byte.
type OrderDescriptor = json.RawMessage

// OrderSummary is the handful of descriptor fields the relay reads for
// logging and events.
type OrderSummary struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Receipt  string `json:"receipt"`
}

type PaymentVerificationRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

const (
	VerificationSuccess = "success"
	VerificationFailure = "failure"
)

type VerificationResponse struct {
	Status    string `json:"status"`
	OrderID   string `json:"orderId,omitempty"`
	PaymentID string `json:"paymentId,omitempty"`
	Message   string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
