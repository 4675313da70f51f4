package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"relay/config"
	"relay/events"
	"relay/generate"
	"relay/payment"
	"relay/server"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	def := config.Default()
	return &cli.App{
		Name:    "checkout-relay",
		Usage:   "Relay prompts to Gemini and orders to Razorpay, and verify checkout signatures",
		Version: server.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Value: def.Port, Usage: "HTTP listen port", EnvVars: []string{"PORT"}},
			&cli.StringSliceFlag{Name: "allowed-origin", Value: cli.NewStringSlice(def.AllowedOrigins...), Usage: "CORS origins allowed to call the relay", EnvVars: []string{"ALLOWED_ORIGIN"}},
			&cli.StringFlag{Name: "gemini-api-key", Usage: "Gemini API key", EnvVars: []string{config.EnvGenerationAPIKey}},
			&cli.StringFlag{Name: "razorpay-key-id", Usage: "Razorpay key id", EnvVars: []string{config.EnvPaymentKeyID}},
			&cli.StringFlag{Name: "razorpay-key-secret", Usage: "Razorpay key secret", EnvVars: []string{config.EnvPaymentKeySecret}},
			&cli.StringFlag{Name: "gemini-base-url", Value: def.GeminiBaseURL, EnvVars: []string{"GEMINI_BASE_URL"}},
			&cli.StringFlag{Name: "gemini-model", Value: def.GeminiModel, EnvVars: []string{"GEMINI_MODEL"}},
			&cli.StringFlag{Name: "razorpay-base-url", Value: def.RazorpayBaseURL, EnvVars: []string{"RAZORPAY_BASE_URL"}},
			&cli.DurationFlag{Name: "upstream-timeout", Value: def.UpstreamTimeout, Usage: "Timeout for each outbound call", EnvVars: []string{"UPSTREAM_TIMEOUT"}},
			&cli.DurationFlag{Name: "shutdown-timeout", Value: def.ShutdownTimeout, EnvVars: []string{"SHUTDOWN_TIMEOUT"}},
			&cli.Int64Flag{Name: "max-body-bytes", Value: def.MaxBodyBytes, EnvVars: []string{"MAX_BODY_BYTES"}},
			&cli.StringFlag{Name: "log-level", Value: def.LogLevel, Usage: "Log level (debug, info, warn, error)", EnvVars: []string{"LOG_LEVEL"}},
			&cli.StringFlag{Name: "log-format", Value: def.LogFormat, Usage: "Log format (json, console)", EnvVars: []string{"LOG_FORMAT"}},
			&cli.StringSliceFlag{Name: "kafka-brokers", Usage: "Kafka brokers for payment events; empty disables events", EnvVars: []string{"KAFKA_BROKERS"}},
			&cli.StringFlag{Name: "kafka-topic", Value: def.Kafka.Topic, EnvVars: []string{"KAFKA_TOPIC"}},
			&cli.StringFlag{Name: "kafka-client-id", Value: def.Kafka.ClientID, EnvVars: []string{"KAFKA_CLIENT_ID"}},
			&cli.IntFlag{Name: "kafka-queue-size", Value: def.Kafka.QueueSize, Usage: "Events buffered for the broker before new ones are dropped", EnvVars: []string{"KAFKA_QUEUE_SIZE"}},
		},
		Action: serve,
	}
}

func configFromContext(c *cli.Context) *config.Config {
	cfg := config.Default()
	if port := strings.TrimSpace(c.String("port")); port != "" {
		cfg.Port = port
	}
	cfg.AllowedOrigins = c.StringSlice("allowed-origin")
	cfg.Credentials = config.Credentials{
		GenerationAPIKey: c.String("gemini-api-key"),
		PaymentKeyID:     c.String("razorpay-key-id"),
		PaymentKeySecret: c.String("razorpay-key-secret"),
	}
	cfg.GeminiBaseURL = c.String("gemini-base-url")
	cfg.GeminiModel = c.String("gemini-model")
	cfg.RazorpayBaseURL = c.String("razorpay-base-url")
	cfg.UpstreamTimeout = c.Duration("upstream-timeout")
	cfg.ShutdownTimeout = c.Duration("shutdown-timeout")
	cfg.MaxBodyBytes = c.Int64("max-body-bytes")
	cfg.LogLevel = c.String("log-level")
	cfg.LogFormat = c.String("log-format")
	cfg.Kafka = config.Kafka{
		Brokers:   nonEmpty(c.StringSlice("kafka-brokers")),
		Topic:     c.String("kafka-topic"),
		ClientID:  c.String("kafka-client-id"),
		QueueSize: c.Int("kafka-queue-size"),
	}
	return cfg
}

func serve(c *cli.Context) error {
	cfg := configFromContext(c)
	log := newLogger(cfg.LogLevel, cfg.LogFormat)

	// Missing secrets are not fatal; the endpoints that need them answer 500.
	if missing := cfg.Credentials.Missing(); len(missing) > 0 {
		log.Warn().Strs("missing", missing).Msg("credentials not configured")
	}
	log.Info().
		Object("credentials", cfg.Credentials).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Dur("upstream_timeout", cfg.UpstreamTimeout).
		Msg("configuration loaded")

	publisher, err := newPublisher(cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	gemini := generate.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.Credentials.GenerationAPIKey, cfg.UpstreamTimeout)
	razorpay := payment.NewRazorpayClient(cfg.RazorpayBaseURL, cfg.Credentials.PaymentKeyID, cfg.Credentials.PaymentKeySecret, cfg.UpstreamTimeout)

	srv := server.New(cfg,
		generate.NewService(cfg, gemini, log),
		payment.NewService(cfg, razorpay, publisher, log),
		log,
	)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

func newPublisher(k config.Kafka, log zerolog.Logger) (events.Publisher, error) {
	if !k.Enabled() {
		log.Info().Msg("kafka brokers not set, payment events disabled")
		return events.Nop{}, nil
	}
	producer, err := events.NewSyncProducer(k.Brokers, k.ClientID)
	if err != nil {
		return nil, fmt.Errorf("init kafka producer: %w", err)
	}
	log.Info().Strs("brokers", k.Brokers).Str("topic", k.Topic).Msg("kafka producer initialized")
	return events.NewKafkaPublisher(producer, k.Topic, k.QueueSize, log), nil
}

func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var logger zerolog.Logger
	if format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(lvl).With().Timestamp().Str("service", "checkout-relay").Logger()
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
