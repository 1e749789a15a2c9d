package pipeline

// Gate is the admission check an operation runs behind.
type Gate int

const (
	// GateQuota admits premium callers and free callers under the free limit.
	GateQuota Gate = iota
	// GatePlan admits premium callers only.
	GatePlan
)

func (g Gate) String() string {
	switch g {
	case GatePlan:
		return "plan"
	default:
		return "quota"
	}
}

// Admit reports whether a caller on plan who has used usage free
// operations may run another chargeable one.
func Admit(plan Plan, usage, limit int) bool {
	return plan == PlanPremium || usage < limit
}

func (g Gate) check(caller Caller, limit int) error {
	switch g {
	case GatePlan:
		if !caller.IsPremium() {
			return ErrPremiumOnly
		}
	default:
		if !Admit(caller.Plan, caller.FreeUsage, limit) {
			return ErrLimitReached
		}
	}
	return nil
}
