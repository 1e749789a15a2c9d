package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/quickai/server/internal/module/pipeline"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists accounts.
type Repository interface {
	// GetOrCreate returns the user's account, creating a free one on first sight.
	GetOrCreate(ctx context.Context, userID string) (*Account, error)
	GetByStripeCustomer(ctx context.Context, customerID string) (*Account, error)
	// SetPlan changes the plan. An empty customerID leaves the stored one untouched.
	SetPlan(ctx context.Context, userID string, plan pipeline.Plan, customerID string) error
	// IncrementUsage adds one to free_usage in a single statement.
	IncrementUsage(ctx context.Context, userID string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new account repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreate(ctx context.Context, userID string) (*Account, error) {
	var acct Account
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&acct).Error
	if err == nil {
		return &acct, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get account: %w", err)
	}

	acct = Account{UserID: userID, Plan: string(pipeline.PlanFree)}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&acct).Error
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &acct, nil
}

func (r *repository) GetByStripeCustomer(ctx context.Context, customerID string) (*Account, error) {
	var acct Account
	err := r.db.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(&acct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &acct, nil
}

func (r *repository) SetPlan(ctx context.Context, userID string, plan pipeline.Plan, customerID string) error {
	updates := map[string]any{"plan": string(plan)}
	if customerID != "" {
		updates["stripe_customer_id"] = customerID
	}

	result := r.db.WithContext(ctx).Model(&Account{}).Where("user_id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *repository) IncrementUsage(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).Model(&Account{}).
		Where("user_id = ?", userID).
		UpdateColumn("free_usage", gorm.Expr("free_usage + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}
