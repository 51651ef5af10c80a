package plans

// Plan names how much of the tool a subscription tier unlocks.
type Plan struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MaxBuckets  int    `json:"max_buckets"`
	MaxExpenses int    `json:"max_expenses"`
	Export      bool   `json:"export"`
}

const (
	PlanBasic    = "basic"
	PlanAdvanced = "advanced"
)

var plans = map[string]Plan{
	PlanBasic: {
		ID:          PlanBasic,
		Name:        "Basic",
		MaxBuckets:  20,
		MaxExpenses: 200,
		Export:      false,
	},
	PlanAdvanced: {
		ID:          PlanAdvanced,
		Name:        "Advanced",
		MaxBuckets:  200,
		MaxExpenses: 5000,
		Export:      true,
	},
}

// ByID returns the plan for the given id, falling back to Basic for
// unknown ids so legacy rows keep working.
func ByID(id string) Plan {
	if p, ok := plans[id]; ok {
		return p
	}
	return plans[PlanBasic]
}

// All returns the known plans, Basic first.
func All() []Plan {
	return []Plan{plans[PlanBasic], plans[PlanAdvanced]}
}

// IsValid reports whether id names a known plan.
func IsValid(id string) bool {
	_, ok := plans[id]
	return ok
}

// CanAddBucket reports whether a user on the plan may add another
// bucket given their current count.
func (p Plan) CanAddBucket(current int) bool {
	return current < p.MaxBuckets
}

// CanAddExpense reports whether a user on the plan may record another
// expense given their current count.
func (p Plan) CanAddExpense(current int) bool {
	return current < p.MaxExpenses
}
