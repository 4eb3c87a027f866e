package subscription

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusTrial    Status = "TRIAL"
	StatusActive   Status = "ACTIVE"
	StatusPastDue  Status = "PAST_DUE"
	StatusCanceled Status = "CANCELED"
	StatusExpired  Status = "EXPIRED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusTrial, StatusActive, StatusPastDue, StatusCanceled, StatusExpired:
		return true
	}
	return false
}

type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "MONTHLY"
	BillingCycleYearly  BillingCycle = "YEARLY"
)

func (c BillingCycle) IsValid() bool {
	return c == BillingCycleMonthly || c == BillingCycleYearly
}

// NextRenewalDate computes the renewal date one billing period after from,
// using calendar arithmetic (Jan 31 + 1 month = Mar 2/3).
func NextRenewalDate(from time.Time, cycle BillingCycle) time.Time {
	if cycle == BillingCycleYearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}

// Subscription holds the billing relationship between an organization and a
// plan. At most one subscription row per organization has isActive set;
// superseded rows are kept deactivated for history. The trial invariant is
// maintained by every transition: isTrial implies status TRIAL and
// trialEndDate equal to renewalDate.
type Subscription struct {
	id               uint
	sid              string
	organizationID   uint
	planID           uint
	status           Status
	billingCycle     BillingCycle
	isTrial          bool
	trialEndDate     *time.Time
	startDate        time.Time
	renewalDate      time.Time
	cancelledAt      *time.Time
	paymentProvider  string
	paymentReference string
	isActive         bool
	version          int
	createdAt        time.Time
	updatedAt        time.Time
}

// NewSubscription starts a subscription for an organization. A positive
// trialDays starts it in trial with the trial end doubling as the renewal
// date; otherwise it starts ACTIVE with a regular billing period.
func NewSubscription(sid string, organizationID, planID uint, cycle BillingCycle, trialDays int) (*Subscription, error) {
	if sid == "" {
		return nil, fmt.Errorf("subscription SID is required")
	}
	if organizationID == 0 {
		return nil, fmt.Errorf("organization ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !cycle.IsValid() {
		return nil, fmt.Errorf("invalid billing cycle: %s", cycle)
	}
	if trialDays < 0 {
		return nil, fmt.Errorf("trial days cannot be negative")
	}

	now := time.Now()
	sub := &Subscription{
		sid:            sid,
		organizationID: organizationID,
		planID:         planID,
		billingCycle:   cycle,
		startDate:      now,
		isActive:       true,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}

	if trialDays > 0 {
		end := now.AddDate(0, 0, trialDays)
		sub.status = StatusTrial
		sub.isTrial = true
		sub.trialEndDate = &end
		sub.renewalDate = end
	} else {
		sub.status = StatusActive
		sub.renewalDate = NextRenewalDate(now, cycle)
	}

	return sub, nil
}

func ReconstructSubscription(
	id uint,
	sid string,
	organizationID, planID uint,
	status Status,
	cycle BillingCycle,
	isTrial bool,
	trialEndDate *time.Time,
	startDate, renewalDate time.Time,
	cancelledAt *time.Time,
	paymentProvider, paymentReference string,
	isActive bool,
	version int,
	createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}

	return &Subscription{
		id:               id,
		sid:              sid,
		organizationID:   organizationID,
		planID:           planID,
		status:           status,
		billingCycle:     cycle,
		isTrial:          isTrial,
		trialEndDate:     trialEndDate,
		startDate:        startDate,
		renewalDate:      renewalDate,
		cancelledAt:      cancelledAt,
		paymentProvider:  paymentProvider,
		paymentReference: paymentReference,
		isActive:         isActive,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

func (s *Subscription) ID() uint {
	return s.id
}

func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

func (s *Subscription) SID() string {
	return s.sid
}

func (s *Subscription) OrganizationID() uint {
	return s.organizationID
}

func (s *Subscription) PlanID() uint {
	return s.planID
}

func (s *Subscription) Status() Status {
	return s.status
}

func (s *Subscription) BillingCycle() BillingCycle {
	return s.billingCycle
}

func (s *Subscription) IsTrial() bool {
	return s.isTrial
}

func (s *Subscription) TrialEndDate() *time.Time {
	return s.trialEndDate
}

func (s *Subscription) StartDate() time.Time {
	return s.startDate
}

func (s *Subscription) RenewalDate() time.Time {
	return s.renewalDate
}

func (s *Subscription) CancelledAt() *time.Time {
	return s.cancelledAt
}

func (s *Subscription) PaymentProvider() string {
	return s.paymentProvider
}

func (s *Subscription) PaymentReference() string {
	return s.paymentReference
}

// SetPaymentInfo records the external billing provider and its reference
// for the subscription. Part of initial setup, so it does not bump the
// version.
func (s *Subscription) SetPaymentInfo(provider, reference string) {
	s.paymentProvider = provider
	s.paymentReference = reference
}

func (s *Subscription) IsActive() bool {
	return s.isActive
}

func (s *Subscription) Version() int {
	return s.version
}

func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

// IsBillable reports whether the subscription is in a state that accrues
// revenue.
func (s *Subscription) IsBillable() bool {
	return s.status == StatusActive || s.status == StatusTrial
}

func (s *Subscription) touch() {
	s.version++
	s.updatedAt = time.Now()
}

// ApplyPlanChange moves the subscription to a new plan and billing cycle.
// The subscription becomes ACTIVE regardless of its prior state, so changing
// plans on a cancelled or expired subscription reactivates it. Any running
// trial ends immediately.
func (s *Subscription) ApplyPlanChange(planID uint, cycle BillingCycle) error {
	if !s.isActive {
		return ErrInactive
	}
	if planID == 0 {
		return fmt.Errorf("plan ID is required")
	}
	if !cycle.IsValid() {
		return fmt.Errorf("invalid billing cycle: %s", cycle)
	}
	if planID == s.planID && cycle == s.billingCycle && s.status == StatusActive {
		return ErrSamePlan
	}

	s.planID = planID
	s.billingCycle = cycle
	s.status = StatusActive
	s.isTrial = false
	s.trialEndDate = nil
	s.cancelledAt = nil
	s.renewalDate = NextRenewalDate(time.Now(), cycle)
	s.touch()
	return nil
}

// ExtendTrial pushes the trial end out by the given number of days. A
// lapsed trial extends from now rather than from the stored end, so the
// organization always gets the full extension. The renewal date follows
// the trial end.
func (s *Subscription) ExtendTrial(days int) error {
	if !s.isActive {
		return ErrInactive
	}
	if !s.isTrial || s.status != StatusTrial {
		return ErrNotTrialing
	}
	if days <= 0 {
		return fmt.Errorf("extension days must be positive")
	}

	base := *s.trialEndDate
	if now := time.Now(); base.Before(now) {
		base = now
	}
	end := base.AddDate(0, 0, days)
	s.trialEndDate = &end
	s.renewalDate = end
	s.touch()
	return nil
}

// ConvertTrial ends the trial and moves the subscription to ACTIVE with a
// full billing period starting now.
func (s *Subscription) ConvertTrial() error {
	if !s.isActive {
		return ErrInactive
	}
	if !s.isTrial || s.status != StatusTrial {
		return ErrNotTrialing
	}

	s.status = StatusActive
	s.isTrial = false
	s.trialEndDate = nil
	s.renewalDate = NextRenewalDate(time.Now(), s.billingCycle)
	s.touch()
	return nil
}

// Cancel marks the subscription cancelled. A running trial is terminated as
// part of cancellation so a later reactivation cannot resurrect it.
func (s *Subscription) Cancel() error {
	if !s.isActive {
		return ErrInactive
	}
	if s.status == StatusCanceled || s.status == StatusExpired {
		return ErrAlreadyCancelled
	}

	now := time.Now()
	s.status = StatusCanceled
	s.isTrial = false
	s.trialEndDate = nil
	s.cancelledAt = &now
	s.touch()
	return nil
}

// Reactivate returns a cancelled subscription to ACTIVE on its current plan
// with a fresh billing period.
func (s *Subscription) Reactivate() error {
	if !s.isActive {
		return ErrInactive
	}
	if s.status != StatusCanceled && s.status != StatusExpired {
		return fmt.Errorf("cannot reactivate subscription in status %s", s.status)
	}

	s.status = StatusActive
	s.cancelledAt = nil
	s.renewalDate = NextRenewalDate(time.Now(), s.billingCycle)
	s.touch()
	return nil
}

// MarkPastDue flags a billable subscription whose renewal payment failed.
func (s *Subscription) MarkPastDue() error {
	if !s.isActive {
		return ErrInactive
	}
	if s.status != StatusActive && s.status != StatusTrial {
		return fmt.Errorf("cannot mark subscription past due from status %s", s.status)
	}

	s.status = StatusPastDue
	s.isTrial = false
	s.trialEndDate = nil
	s.touch()
	return nil
}

// ForceExpire moves the subscription to EXPIRED from any state. Used by the
// renewal sweep and by manual overrides.
func (s *Subscription) ForceExpire() error {
	if !s.isActive {
		return ErrInactive
	}

	s.status = StatusExpired
	s.isTrial = false
	s.trialEndDate = nil
	s.touch()
	return nil
}

// Deactivate retires this row so a replacement subscription can become the
// organization's active one. Deactivated rows are immutable history.
func (s *Subscription) Deactivate() {
	if !s.isActive {
		return
	}
	s.isActive = false
	s.touch()
}
