package payment

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"storefront/internal/config"
	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "storefront/internal/payment"

// MessageUnsupportedCard is the failure message for cards no network accepts.
const MessageUnsupportedCard = "Unsupported card type"

// Attempt is one checkout's request to pay. Reference ties it to the
// checkout in logs and traces.
type Attempt struct {
	Reference string
	Method    Method
	Amount    decimal.Decimal
	Phone     string
	Card      *model.CardDetails
}

// Result is the settled outcome of an attempt.
type Result struct {
	Success       bool            `json:"success"`
	Provider      Provider        `json:"provider"`
	Message       string          `json:"message"`
	TransactionID string          `json:"transactionId,omitempty"`
	USSDCode      string          `json:"ussdCode,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	State         State           `json:"state"`
}

// Dispatcher validates attempts and routes them to exactly one gateway.
type Dispatcher struct {
	gateways    map[Provider]Gateway
	now         func() time.Time
	tracer      trace.Tracer
	settlements metric.Int64Counter
	latency     metric.Float64Histogram
	logger      zerolog.Logger
}

type settings struct {
	random   func() float64
	now      func() time.Time
	gateways []Gateway
}

// Option customises a Dispatcher.
type Option func(*settings)

// WithRandom replaces the source of the simulators' success draws.
// random must return values in [0, 1).
func WithRandom(random func() float64) Option {
	return func(s *settings) { s.random = random }
}

// WithClock replaces the clock used for card expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithGateway replaces the gateway for g.Provider().
func WithGateway(g Gateway) Option {
	return func(s *settings) { s.gateways = append(s.gateways, g) }
}

// NewDispatcher creates a dispatcher with simulated gateways tuned by cfg.
func NewDispatcher(cfg config.PaymentConfig, logger zerolog.Logger, opts ...Option) *Dispatcher {
	s := settings{random: rand.Float64, now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}

	logger = logger.With().Str("component", "payment-dispatcher").Logger()

	merchant, recipient := cfg.MerchantCode, cfg.RecipientPhone
	gateways := map[Provider]Gateway{
		ProviderEcoCash: &simulator{
			provider:    ProviderEcoCash,
			delay:       cfg.MobileDelay,
			successRate: cfg.MobileSuccessRate,
			random:      s.random,
			success:     "EcoCash payment successful",
			failure:     "EcoCash payment failed",
			ussd:        func(a decimal.Decimal) string { return EcoCashUSSD(merchant, recipient, a) },
		},
		ProviderInnBucks: &simulator{
			provider:    ProviderInnBucks,
			delay:       cfg.MobileDelay,
			successRate: cfg.MobileSuccessRate,
			random:      s.random,
			success:     "InnBucks payment successful",
			failure:     "InnBucks payment failed",
			ussd:        func(a decimal.Decimal) string { return InnBucksUSSD(merchant, recipient, a) },
		},
		ProviderVisa: &simulator{
			provider:    ProviderVisa,
			delay:       cfg.CardDelay,
			successRate: cfg.CardSuccessRate,
			random:      s.random,
			success:     "visa payment successful",
			failure:     "visa payment declined",
		},
		ProviderMastercard: &simulator{
			provider:    ProviderMastercard,
			delay:       cfg.CardDelay,
			successRate: cfg.CardSuccessRate,
			random:      s.random,
			success:     "mastercard payment successful",
			failure:     "mastercard payment declined",
		},
		ProviderCash: &simulator{
			provider:    ProviderCash,
			delay:       cfg.CashDelay,
			successRate: 1,
			random:      s.random,
			success:     "Cash on delivery order confirmed",
			noTxID:      true,
		},
	}
	for _, g := range s.gateways {
		gateways[g.Provider()] = g
	}

	meter := otel.Meter(instrumentationName)
	settlements, err := meter.Int64Counter("payment.settlements",
		metric.WithDescription("Settled payment attempts by provider and outcome"))
	if err != nil {
		logger.Warn().Err(err).Msg("failed to create settlement counter")
	}
	latency, err := meter.Float64Histogram("payment.settlement.duration",
		metric.WithDescription("Time spent waiting for a gateway to settle"),
		metric.WithUnit("ms"))
	if err != nil {
		logger.Warn().Err(err).Msg("failed to create settlement histogram")
	}

	return &Dispatcher{
		gateways:    gateways,
		now:         s.now,
		tracer:      otel.Tracer(instrumentationName),
		settlements: settlements,
		latency:     latency,
		logger:      logger,
	}
}

// Dispatch validates the attempt and settles it. A validation failure
// returns a *FieldError and leaves the attempt idle; nothing is submitted.
// A declined payment is not an error: the Result carries Success false and
// the gateway's message. Once submitted, the attempt settles even if ctx is
// cancelled.
func (d *Dispatcher) Dispatch(ctx context.Context, a Attempt) (*Result, error) {
	ctx, span := d.tracer.Start(ctx, "payment.dispatch", trace.WithAttributes(
		attribute.String("payment.method", string(a.Method)),
		attribute.String("payment.reference", a.Reference),
	))
	defer span.End()

	logger := d.logger.With().Str("reference", a.Reference).Str("method", string(a.Method)).Logger()

	tx := NewTransaction()
	d.advance(tx, StateValidating, logger)

	if err := validate(a, d.now()); err != nil {
		d.advance(tx, StateIdle, logger)
		span.SetStatus(codes.Error, "validation failed")
		logger.Info().Err(err).Msg("payment attempt rejected")
		return nil, err
	}

	d.advance(tx, StateSubmitted, logger)

	provider, ok := d.route(a)
	if !ok {
		d.advance(tx, StateSettledFailure, logger)
		span.SetStatus(codes.Error, MessageUnsupportedCard)
		d.record(ctx, "unsupported", false)
		logger.Info().Msg("unsupported card network")
		return &Result{Message: MessageUnsupportedCard, Amount: a.Amount, State: tx.State()}, nil
	}
	span.SetAttributes(attribute.String("payment.provider", string(provider)))

	gateway := d.gateways[provider]
	start := time.Now()
	settlement, err := gateway.Settle(context.WithoutCancel(ctx), Charge{
		Reference: a.Reference,
		Amount:    a.Amount,
		Phone:     NormalizePhone(a.Phone),
	})
	if d.latency != nil {
		d.latency.Record(ctx, float64(time.Since(start).Milliseconds()),
			metric.WithAttributes(attribute.String("provider", string(provider))))
	}
	if err != nil {
		d.advance(tx, StateSettledFailure, logger)
		span.RecordError(err)
		span.SetStatus(codes.Error, "settlement failed")
		logger.Error().Err(err).Str("provider", string(provider)).Msg("gateway failed to settle")
		return nil, fmt.Errorf("failed to settle %s payment: %w", provider, err)
	}

	if settlement.Success {
		d.advance(tx, StateSettledSuccess, logger)
	} else {
		d.advance(tx, StateSettledFailure, logger)
		span.SetStatus(codes.Error, settlement.Message)
	}
	d.record(ctx, string(provider), settlement.Success)

	logger.Info().
		Str("provider", string(provider)).
		Bool("success", settlement.Success).
		Str("transaction_id", settlement.TransactionID).
		Msg("payment settled")

	return &Result{
		Success:       settlement.Success,
		Provider:      provider,
		Message:       settlement.Message,
		TransactionID: settlement.TransactionID,
		USSDCode:      settlement.USSDCode,
		Amount:        a.Amount,
		State:         tx.State(),
	}, nil
}

func (d *Dispatcher) route(a Attempt) (Provider, bool) {
	switch a.Method {
	case MethodEcoCash:
		return ProviderEcoCash, true
	case MethodInnBucks:
		return ProviderInnBucks, true
	case MethodCash:
		return ProviderCash, true
	case MethodCard:
		return cardProvider(NormalizeCardNumber(a.Card.Number))
	}
	return "", false
}

func (d *Dispatcher) advance(tx *Transaction, next State, logger zerolog.Logger) {
	if err := tx.To(next); err != nil {
		logger.Error().Err(err).Msg("payment state machine violated")
	}
}

func (d *Dispatcher) record(ctx context.Context, provider string, success bool) {
	if d.settlements == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	d.settlements.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	))
}
