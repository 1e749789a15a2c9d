// Package account tracks each user's plan and free usage.
package account

import (
	"time"
)

// Account is the billing state of one user.
type Account struct {
	UserID           string    `gorm:"primaryKey;type:varchar(255)" json:"user_id"`
	Plan             string    `gorm:"type:varchar(20);not null" json:"plan"`
	FreeUsage        int       `gorm:"not null" json:"free_usage"`
	StripeCustomerID string    `gorm:"type:varchar(255);index" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName returns the table name for Account.
func (Account) TableName() string {
	return "accounts"
}
