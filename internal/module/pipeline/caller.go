// Package pipeline runs user-facing AI operations: it gates the caller,
// dispatches to one capability, records provenance and charges usage.
package pipeline

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Plan is a subscription tier.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// ParsePlan maps a stored plan name to a Plan. Anything unknown is free.
func ParsePlan(s string) Plan {
	if Plan(strings.ToLower(strings.TrimSpace(s))) == PlanPremium {
		return PlanPremium
	}
	return PlanFree
}

// Caller is the identity and entitlement a request runs under.
type Caller struct {
	UserID    string
	Plan      Plan
	FreeUsage int
}

// IsPremium reports whether the caller is on the premium plan.
func (c Caller) IsPremium() bool {
	return c.Plan == PlanPremium
}

const callerKey = "caller"

// SetCaller stores the resolved caller on the request.
func SetCaller(c *gin.Context, caller Caller) {
	c.Set(callerKey, caller)
}

// GetCaller returns the caller resolved by the entitlement middleware.
func GetCaller(c *gin.Context) (Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return Caller{}, false
	}
	caller, ok := v.(Caller)
	return caller, ok
}
