package config

import (
	"time"

	"github.com/rs/zerolog"
)

// Env var names for the three secrets. Used for both loading and for the
// startup warning about which ones are unset.
const (
	EnvGenerationAPIKey = "GEMINI_API_KEY"
	EnvPaymentKeyID     = "RAZORPAY_KEY_ID"
	EnvPaymentKeySecret = "RAZORPAY_KEY_SECRET"
)

// Credentials are the upstream secrets. They are never logged or echoed;
// String and MarshalZerologObject only report whether each one is set.
type Credentials struct {
	GenerationAPIKey string
	PaymentKeyID     string
	PaymentKeySecret string
}

func (c Credentials) HasGeneration() bool { return c.GenerationAPIKey != "" }

func (c Credentials) HasPayment() bool {
	return c.PaymentKeyID != "" && c.PaymentKeySecret != ""
}

func (c Credentials) String() string { return "Credentials{redacted}" }

func (c Credentials) GoString() string { return c.String() }

func (c Credentials) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("generation_api_key", c.GenerationAPIKey != "").
		Bool("payment_key_id", c.PaymentKeyID != "").
		Bool("payment_key_secret", c.PaymentKeySecret != "")
}

// Missing lists the env var names of credentials that are unset.
func (c Credentials) Missing() []string {
	var out []string
	if c.GenerationAPIKey == "" {
		out = append(out, EnvGenerationAPIKey)
	}
	if c.PaymentKeyID == "" {
		out = append(out, EnvPaymentKeyID)
	}
	if c.PaymentKeySecret == "" {
		out = append(out, EnvPaymentKeySecret)
	}
	return out
}

// Kafka configures the optional payment event stream. No brokers means
// events are dropped.
type Kafka struct {
	Brokers  []string
	Topic    string
	ClientID string
	// QueueSize bounds events waiting for the broker; extras are dropped.
	QueueSize int
}

func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }

// Config is built once in main and shared read-only by every handler.
type Config struct {
	Port           string
	AllowedOrigins []string

	Credentials Credentials

	GeminiBaseURL   string
	GeminiModel     string
	RazorpayBaseURL string

	// UpstreamTimeout bounds each outbound call to Gemini or Razorpay.
	UpstreamTimeout time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64

	LogLevel  string
	LogFormat string

	Kafka Kafka
}

// Default returns a Config with every non-secret field set.
func Default() *Config {
	return &Config{
		Port:            "3000",
		AllowedOrigins:  []string{"https://qandagenerator.netlify.app"},
		GeminiBaseURL:   "https://generativelanguage.googleapis.com/v1beta",
		GeminiModel:     "gemini-2.0-flash",
		RazorpayBaseURL: "https://api.razorpay.com/v1",
		UpstreamTimeout: 15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxBodyBytes:    1 << 20,
		LogLevel:        "info",
		LogFormat:       "json",
		Kafka: Kafka{
			Topic:     "payments_events",
			ClientID:  "checkout-relay",
			QueueSize: 256,
		},
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.Port }
