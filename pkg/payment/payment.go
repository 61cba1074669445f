package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Intent is a payment authorization created before the client pays.
type Intent struct {
	ID           string            `json:"intent_id"`
	Amount       float64           `json:"amount"`
	Currency     string            `json:"currency"`
	ClientParams map[string]string `json:"client_params"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Result reports the outcome of a payment verification.
type Result struct {
	Success    bool    `json:"success"`
	AmountPaid float64 `json:"amount_paid"`
}

// Gateway is the payment collaborator consumed by the reservation flow.
// Provider protocols (Razorpay, Stripe, ...) live behind this interface.
type Gateway interface {
	CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*Intent, error)
	Verify(ctx context.Context, intentID, proof string) (*Result, error)
}

// stubGateway is an in-process gateway for development and tests. Intents
// live in memory; verification succeeds for any non-empty proof except the
// literal "declined".
type stubGateway struct {
	mu      sync.Mutex
	intents map[string]*Intent
	log     *zap.Logger
}

func NewStubGateway(log *zap.Logger) Gateway {
	return &stubGateway{
		intents: make(map[string]*Intent),
		log:     log.With(zap.String("gateway", "stub")),
	}
}

func (g *stubGateway) CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*Intent, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("invalid intent amount %.2f", amount)
	}
	if currency == "" {
		currency = "INR"
	}

	intent := &Intent{
		ID:       "PAY-" + uuid.New().String(),
		Amount:   amount,
		Currency: currency,
		ClientParams: map[string]string{
			"key_id": "stub",
		},
		CreatedAt: time.Now(),
	}
	for k, v := range metadata {
		intent.ClientParams[k] = v
	}

	g.mu.Lock()
	g.intents[intent.ID] = intent
	g.mu.Unlock()

	g.log.Info("Payment intent created",
		zap.String("intent_id", intent.ID),
		zap.Float64("amount", amount),
		zap.String("currency", currency),
	)

	return intent, nil
}

func (g *stubGateway) Verify(ctx context.Context, intentID, proof string) (*Result, error) {
	g.mu.Lock()
	intent, ok := g.intents[intentID]
	g.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("payment intent %s not found", intentID)
	}

	if proof == "" || proof == "declined" {
		g.log.Warn("Payment verification failed",
			zap.String("intent_id", intentID),
		)
		return &Result{Success: false}, nil
	}

	return &Result{Success: true, AmountPaid: intent.Amount}, nil
}
