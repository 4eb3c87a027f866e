package subscription

import (
	"fmt"
	"strings"
	"time"
)

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusArchived PlanStatus = "archived"
)

// Tier ranks form a fixed total order over plan names, used to classify a
// plan change as upgrade or downgrade. Unknown plan names rank as free.
const (
	TierFree       = 0
	TierStarter    = 1
	TierPro        = 2
	TierEnterprise = 3
)

// TierRank maps a plan name to its rank in the tier order.
func TierRank(planName string) int {
	switch strings.ToUpper(strings.TrimSpace(planName)) {
	case "STARTER":
		return TierStarter
	case "PRO":
		return TierPro
	case "ENTERPRISE":
		return TierEnterprise
	default:
		return TierFree
	}
}

// Plan is read-mostly reference data for the lifecycle engine. Prices
// are stored in cents; yearlyPrice of zero means the plan is not offered
// yearly at a discount and the monthly price is used as the base.
type Plan struct {
	id          uint
	sid         string
	name        string
	description string
	price       int64
	yearlyPrice int64
	trialDays   int
	status      PlanStatus
	createdAt   time.Time
	updatedAt   time.Time
}

func NewPlan(sid, name, description string, price, yearlyPrice int64, trialDays int) (*Plan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if sid == "" {
		return nil, fmt.Errorf("plan SID is required")
	}
	if price < 0 || yearlyPrice < 0 {
		return nil, fmt.Errorf("plan price cannot be negative")
	}
	if trialDays < 0 {
		return nil, fmt.Errorf("trial days cannot be negative")
	}

	now := time.Now()
	return &Plan{
		sid:         sid,
		name:        name,
		description: description,
		price:       price,
		yearlyPrice: yearlyPrice,
		trialDays:   trialDays,
		status:      PlanStatusActive,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructPlan(id uint, sid, name, description string, price, yearlyPrice int64, trialDays int, status PlanStatus, createdAt, updatedAt time.Time) (*Plan, error) {
	if id == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}

	return &Plan{
		id:          id,
		sid:         sid,
		name:        name,
		description: description,
		price:       price,
		yearlyPrice: yearlyPrice,
		trialDays:   trialDays,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (p *Plan) ID() uint {
	return p.id
}

func (p *Plan) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("plan ID cannot be zero")
	}
	p.id = id
	return nil
}

func (p *Plan) SID() string {
	return p.sid
}

func (p *Plan) Name() string {
	return p.name
}

func (p *Plan) Description() string {
	return p.description
}

func (p *Plan) Price() int64 {
	return p.price
}

func (p *Plan) YearlyPrice() int64 {
	return p.yearlyPrice
}

func (p *Plan) TrialDays() int {
	return p.trialDays
}

func (p *Plan) Status() PlanStatus {
	return p.status
}

func (p *Plan) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Plan) UpdatedAt() time.Time {
	return p.updatedAt
}

func (p *Plan) IsActive() bool {
	return p.status == PlanStatusActive
}

// TierRank returns the plan's rank in the tier order.
func (p *Plan) TierRank() int {
	return TierRank(p.name)
}

func (p *Plan) Update(name, description string, price, yearlyPrice int64, trialDays int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("plan name is required")
	}
	if price < 0 || yearlyPrice < 0 {
		return fmt.Errorf("plan price cannot be negative")
	}
	if trialDays < 0 {
		return fmt.Errorf("trial days cannot be negative")
	}
	p.name = name
	p.description = description
	p.price = price
	p.yearlyPrice = yearlyPrice
	p.trialDays = trialDays
	p.updatedAt = time.Now()
	return nil
}

func (p *Plan) Archive() {
	p.status = PlanStatusArchived
	p.updatedAt = time.Now()
}
