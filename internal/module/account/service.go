package account

import (
	"context"
	"fmt"

	"github.com/quickai/server/internal/infra/config"
	"github.com/quickai/server/internal/module/pipeline"
	"go.uber.org/zap"
)

const defaultFreeLimit = 10

// Service resolves entitlements and applies plan changes.
type Service struct {
	repo      Repository
	counter   UsageCounter
	freeLimit int
	logger    *zap.Logger
}

// NewService creates a new account service.
func NewService(repo Repository, counter UsageCounter, cfg config.QuotaConfig, logger *zap.Logger) *Service {
	limit := cfg.FreeLimit
	if limit <= 0 {
		limit = defaultFreeLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, counter: counter, freeLimit: limit, logger: logger}
}

// Resolve returns the caller a request from userID runs as.
func (s *Service) Resolve(ctx context.Context, userID string) (pipeline.Caller, error) {
	acct, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return pipeline.Caller{}, err
	}
	usage, err := s.counter.Usage(ctx, acct)
	if err != nil {
		return pipeline.Caller{}, err
	}
	return pipeline.Caller{
		UserID:    acct.UserID,
		Plan:      pipeline.ParsePlan(acct.Plan),
		FreeUsage: usage,
	}, nil
}

// Increment charges one free operation to userID.
func (s *Service) Increment(ctx context.Context, userID string) error {
	return s.counter.Increment(ctx, userID)
}

// FreeLimit returns the number of free operations per user.
func (s *Service) FreeLimit() int {
	return s.freeLimit
}

// ActivatePremium moves userID to the premium plan.
func (s *Service) ActivatePremium(ctx context.Context, userID, customerID string) error {
	if err := s.repo.SetPlan(ctx, userID, pipeline.PlanPremium, customerID); err != nil {
		return fmt.Errorf("activate premium: %w", err)
	}
	s.logger.Info("plan changed",
		zap.String("user_id", userID),
		zap.String("plan", string(pipeline.PlanPremium)),
	)
	return nil
}

// DeactivateCustomer moves the account owned by a Stripe customer back to free.
func (s *Service) DeactivateCustomer(ctx context.Context, customerID string) error {
	acct, err := s.repo.GetByStripeCustomer(ctx, customerID)
	if err != nil {
		return fmt.Errorf("find account for customer: %w", err)
	}
	if err := s.repo.SetPlan(ctx, acct.UserID, pipeline.PlanFree, ""); err != nil {
		return fmt.Errorf("deactivate premium: %w", err)
	}
	s.logger.Info("plan changed",
		zap.String("user_id", acct.UserID),
		zap.String("plan", string(pipeline.PlanFree)),
	)
	return nil
}

// StripeCustomer returns the stored Stripe customer id for userID, if any.
func (s *Service) StripeCustomer(ctx context.Context, userID string) (string, error) {
	acct, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return "", err
	}
	return acct.StripeCustomerID, nil
}
