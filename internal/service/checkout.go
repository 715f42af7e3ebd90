package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/payment"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// CheckoutConfig fixes the commercial terms of every charge.
type CheckoutConfig struct {
	Currency       string
	ApplicationFee int64
	MinCharge      int64
}

// CheckoutService creates payment intents and tracks them until an order
// is stored, so charges that never became orders can be found.
type CheckoutService struct {
	gateway payment.Gateway
	sellers SellerLookup
	intents IntentStore
	cfg     CheckoutConfig
}

func NewCheckoutService(gw payment.Gateway, sellers SellerLookup, intents IntentStore, cfg CheckoutConfig) *CheckoutService {
	return &CheckoutService{gateway: gw, sellers: sellers, intents: intents, cfg: cfg}
}

// IntentResult is returned to the client, which confirms the card payment
// directly with the provider using ClientSecret.
type IntentResult struct {
	ClientSecret string
	IntentID     string
}

// CreatePaymentIntent validates the request, resolves the event's seller
// and asks the provider for an intent.  Amounts below the minimum charge
// are rejected before any provider call.  userID is 0 for anonymous
// checkouts.
func (s *CheckoutService) CreatePaymentIntent(ctx context.Context, amount int64, eventID, userID uint64) (IntentResult, error) {
	if amount < s.cfg.MinCharge || eventID == 0 {
		return IntentResult{}, ErrInvalidAmount
	}
	account, err := s.sellers.AccountForEvent(ctx, eventID)
	if err != nil {
		return IntentResult{}, err
	}
	intent, err := s.gateway.CreateIntent(ctx, payment.IntentRequest{
		Amount:         amount,
		Currency:       s.cfg.Currency,
		ApplicationFee: s.cfg.ApplicationFee,
		Destination:    account,
		EventID:        eventID,
		UserID:         userID,
	})
	if err != nil {
		return IntentResult{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	rec := &model.PaymentIntent{
		IntentID:           intent.ID,
		EventID:            &eventID,
		Amount:             amount,
		ApplicationFee:     s.cfg.ApplicationFee,
		DestinationAccount: account,
		Status:             model.IntentCreated,
	}
	if userID != 0 {
		rec.UserID = &userID
	}
	if err := s.intents.Create(ctx, rec); err != nil {
		// The charge has not happened yet; the client can still pay, but
		// this intent will be invisible to reconciliation.
		log.Error().Err(err).Str("intent_id", intent.ID).Msg("checkout: pending intent not recorded")
	}
	return IntentResult{ClientSecret: intent.ClientSecret, IntentID: intent.ID}, nil
}

// HandleWebhook advances the pending intent named by a verified provider
// event.  Event types other than succeeded and failed are ignored, as are
// intents this service never recorded.
func (s *CheckoutService) HandleWebhook(ctx context.Context, ev payment.WebhookEvent) error {
	var status string
	switch ev.Type {
	case payment.EventIntentSucceeded:
		status = model.IntentSucceeded
	case payment.EventIntentFailed:
		status = model.IntentFailed
	default:
		return nil
	}
	if ev.IntentID == "" {
		return nil
	}
	err := s.intents.UpdateStatus(ctx, ev.IntentID, status)
	if errors.Is(err, repository.ErrIntentNotFound) {
		log.Info().Str("intent_id", ev.IntentID).Str("type", ev.Type).Msg("checkout: webhook for unknown or fulfilled intent")
		return nil
	}
	return err
}

// Unreconciled lists intents the provider reported as paid more than
// grace ago that still have no order.  They are only reported; refunds
// and order recovery are manual.
func (s *CheckoutService) Unreconciled(ctx context.Context, grace time.Duration) ([]model.PaymentIntent, error) {
	return s.intents.ListUnreconciled(ctx, time.Now().UTC().Add(-grace))
}
