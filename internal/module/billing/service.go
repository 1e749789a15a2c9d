// Package billing sells the premium plan through Stripe Checkout and applies
// subscription changes reported by Stripe webhooks.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quickai/server/internal/infra/config"
	"github.com/quickai/server/internal/module/account"
	apperrors "github.com/quickai/server/internal/utils/errors"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// Webhook event types that change a plan.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

var (
	ErrBillingDisabled  = apperrors.ServiceUnavailable("Billing is not available")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMissingUser      = errors.New("checkout session has no user reference")
)

// AccountUpdater applies plan changes.
type AccountUpdater interface {
	ActivatePremium(ctx context.Context, userID, customerID string) error
	DeactivateCustomer(ctx context.Context, customerID string) error
	StripeCustomer(ctx context.Context, userID string) (string, error)
}

// CheckoutCreator creates Stripe Checkout sessions.
type CheckoutCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// NewStripeCheckout returns a CheckoutCreator bound to secretKey.
func NewStripeCheckout(secretKey string) CheckoutCreator {
	return session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey}
}

// Service handles checkout and webhooks.
type Service struct {
	accounts AccountUpdater
	checkout CheckoutCreator
	cfg      config.StripeConfig
	logger   *zap.Logger
}

// NewService creates a new billing service.
func NewService(accounts AccountUpdater, checkout CheckoutCreator, cfg config.StripeConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{accounts: accounts, checkout: checkout, cfg: cfg, logger: logger}
}

// CreateCheckout starts a premium subscription checkout for userID and
// returns the hosted page URL.
func (s *Service) CreateCheckout(ctx context.Context, userID, email string) (string, error) {
	if s.cfg.SecretKey == "" || s.cfg.PremiumPriceID == "" {
		return "", ErrBillingDisabled
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(s.cfg.PremiumPriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL:        stripe.String(s.cfg.SuccessURL),
		CancelURL:         stripe.String(s.cfg.CancelURL),
		ClientReferenceID: stripe.String(userID),
		Metadata:          map[string]string{"user_id": userID},
	}
	params.Context = ctx

	customerID, err := s.accounts.StripeCustomer(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load customer: %w", err)
	}
	switch {
	case customerID != "":
		params.Customer = stripe.String(customerID)
	case email != "":
		params.CustomerEmail = stripe.String(email)
	}

	sess, err := s.checkout.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// HandleWebhook verifies and applies one webhook delivery.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch string(event.Type) {
	case EventCheckoutCompleted:
		return s.handleCheckoutCompleted(ctx, &event)
	case EventSubscriptionDeleted:
		return s.handleSubscriptionDeleted(ctx, &event)
	default:
		s.logger.Debug("unhandled webhook event type", zap.String("type", string(event.Type)))
		return nil
	}
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, event *stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("unmarshal checkout session: %w", err)
	}

	userID := sess.ClientReferenceID
	if userID == "" {
		userID = sess.Metadata["user_id"]
	}
	if userID == "" {
		return ErrMissingUser
	}

	var customerID string
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}

	s.logger.Info("checkout completed",
		zap.String("event_id", event.ID),
		zap.String("user_id", userID),
		zap.String("customer_id", customerID),
	)
	return s.accounts.ActivatePremium(ctx, userID, customerID)
}

func (s *Service) handleSubscriptionDeleted(ctx context.Context, event *stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("unmarshal subscription: %w", err)
	}
	if sub.Customer == nil || sub.Customer.ID == "" {
		s.logger.Warn("subscription without customer", zap.String("subscription_id", sub.ID))
		return nil
	}

	err := s.accounts.DeactivateCustomer(ctx, sub.Customer.ID)
	if errors.Is(err, account.ErrAccountNotFound) {
		s.logger.Warn("subscription deleted for unknown customer",
			zap.String("subscription_id", sub.ID),
			zap.String("customer_id", sub.Customer.ID),
		)
		return nil
	}
	return err
}
