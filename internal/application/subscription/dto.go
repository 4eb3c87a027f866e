package subscription

import (
	"time"

	"tessera/internal/domain/subscription"
)

type PlanDTO struct {
	ID          uint      `json:"id"`
	SID         string    `json:"sid"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	YearlyPrice int64     `json:"yearly_price"`
	TrialDays   int       `json:"trial_days"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type SubscriptionDTO struct {
	ID               uint       `json:"id"`
	SID              string     `json:"sid"`
	OrganizationID   uint       `json:"organization_id"`
	PlanID           uint       `json:"plan_id"`
	PlanName         string     `json:"plan_name,omitempty"`
	Status           string     `json:"status"`
	BillingCycle     string     `json:"billing_cycle"`
	IsTrial          bool       `json:"is_trial"`
	TrialEndDate     *time.Time `json:"trial_end_date,omitempty"`
	StartDate        time.Time  `json:"start_date"`
	RenewalDate      time.Time  `json:"renewal_date"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	PaymentProvider  string     `json:"payment_provider,omitempty"`
	PaymentReference string     `json:"payment_reference,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type HistoryDTO struct {
	ID             uint      `json:"id"`
	SubscriptionID uint      `json:"subscription_id"`
	ChangeType     string    `json:"change_type"`
	FromPlanID     uint      `json:"from_plan_id,omitempty"`
	ToPlanID       uint      `json:"to_plan_id"`
	FromStatus     string    `json:"from_status,omitempty"`
	ToStatus       string    `json:"to_status"`
	ActorUserID    uint      `json:"actor_user_id,omitempty"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// RevenueDTO is the platform revenue rollup over billable subscriptions.
type RevenueDTO struct {
	MRR             int64 `json:"mrr"`
	ActiveCount     int   `json:"active_count"`
	TrialCount      int   `json:"trial_count"`
	PastDueCount    int   `json:"past_due_count"`
	CancelledCount  int   `json:"cancelled_count"`
	ExpiredCount    int   `json:"expired_count"`
	TotalActiveRows int   `json:"total_active_rows"`
}

func toPlanDTO(p *subscription.Plan) *PlanDTO {
	return &PlanDTO{
		ID:          p.ID(),
		SID:         p.SID(),
		Name:        p.Name(),
		Description: p.Description(),
		Price:       p.Price(),
		YearlyPrice: p.YearlyPrice(),
		TrialDays:   p.TrialDays(),
		Status:      string(p.Status()),
		CreatedAt:   p.CreatedAt(),
	}
}

func toSubscriptionDTO(s *subscription.Subscription) *SubscriptionDTO {
	return &SubscriptionDTO{
		ID:               s.ID(),
		SID:              s.SID(),
		OrganizationID:   s.OrganizationID(),
		PlanID:           s.PlanID(),
		Status:           string(s.Status()),
		BillingCycle:     string(s.BillingCycle()),
		IsTrial:          s.IsTrial(),
		TrialEndDate:     s.TrialEndDate(),
		StartDate:        s.StartDate(),
		RenewalDate:      s.RenewalDate(),
		CancelledAt:      s.CancelledAt(),
		PaymentProvider:  s.PaymentProvider(),
		PaymentReference: s.PaymentReference(),
		CreatedAt:        s.CreatedAt(),
	}
}

func toHistoryDTO(h *subscription.History) *HistoryDTO {
	return &HistoryDTO{
		ID:             h.ID(),
		SubscriptionID: h.SubscriptionID(),
		ChangeType:     string(h.ChangeType()),
		FromPlanID:     h.FromPlanID(),
		ToPlanID:       h.ToPlanID(),
		FromStatus:     string(h.FromStatus()),
		ToStatus:       string(h.ToStatus()),
		ActorUserID:    h.ActorUserID(),
		Note:           h.Note(),
		CreatedAt:      h.CreatedAt(),
	}
}
