package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	auditapp "tessera/internal/application/audit"
	domainaudit "tessera/internal/domain/audit"
	"tessera/internal/domain/subscription"
	"tessera/internal/shared/db"
	apperrors "tessera/internal/shared/errors"
	"tessera/internal/shared/id"
	"tessera/internal/shared/logger"
)

// Service drives the subscription lifecycle: starting subscriptions,
// plan changes, trial handling, cancellation, reactivation, and the
// renewal sweep. Every lifecycle change appends a history record.
type Service struct {
	subRepo     subscription.Repository
	planRepo    subscription.PlanRepository
	historyRepo subscription.HistoryRepository
	txManager   *db.TransactionManager
	auditSvc    *auditapp.Service
	logger      logger.Interface
}

func NewService(
	subRepo subscription.Repository,
	planRepo subscription.PlanRepository,
	historyRepo subscription.HistoryRepository,
	txManager *db.TransactionManager,
	auditSvc *auditapp.Service,
	logger logger.Interface,
) *Service {
	return &Service{
		subRepo:     subRepo,
		planRepo:    planRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		auditSvc:    auditSvc,
		logger:      logger,
	}
}

type StartCommand struct {
	OrganizationID   uint
	PlanID           uint
	BillingCycle     subscription.BillingCycle
	WithTrial        bool
	PaymentProvider  string
	PaymentReference string
	ActorUserID      uint
}

// Start creates the organization's subscription. Any previously active row
// is deactivated in the same transaction so the at-most-one-active
// invariant holds.
func (s *Service) Start(ctx context.Context, cmd StartCommand) (*SubscriptionDTO, error) {
	plan, err := s.planRepo.GetByID(ctx, cmd.PlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, apperrors.NewNotFoundError("plan not found")
	}
	if !plan.IsActive() {
		return nil, apperrors.NewValidationError("plan is not available")
	}

	sid, err := id.GenerateWithPrefix(id.PrefixSubscription, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate subscription SID: %w", err)
	}

	trialDays := 0
	if cmd.WithTrial {
		trialDays = plan.TrialDays()
	}

	sub, err := subscription.NewSubscription(sid, cmd.OrganizationID, cmd.PlanID, cmd.BillingCycle, trialDays)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	sub.SetPaymentInfo(cmd.PaymentProvider, cmd.PaymentReference)

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.subRepo.DeactivateActiveByOrganization(txCtx, cmd.OrganizationID); err != nil {
			return fmt.Errorf("failed to deactivate previous subscription: %w", err)
		}
		if err := s.subRepo.Create(txCtx, sub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		changeType := subscription.ChangeTypeUpgrade
		if sub.IsTrial() {
			changeType = subscription.ChangeTypeTrialStart
		}
		return s.appendHistory(txCtx, sub, changeType, 0, sub.Status(), cmd.ActorUserID, "")
	})
	if err != nil {
		s.logger.Errorw("failed to start subscription", "error", err, "organization_id", cmd.OrganizationID)
		return nil, err
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.ActorUserID,
		OrganizationID: cmd.OrganizationID,
		Action:         domainaudit.ActionSubscriptionCreate,
		TargetType:     "subscription",
		TargetID:       sub.SID(),
		Detail:         map[string]any{"plan": plan.Name(), "trial": sub.IsTrial()},
	})

	s.logger.Infow("subscription started",
		"subscription_id", sub.ID(),
		"organization_id", cmd.OrganizationID,
		"plan", plan.Name(),
		"trial", sub.IsTrial(),
	)

	dto := toSubscriptionDTO(sub)
	dto.PlanName = plan.Name()
	return dto, nil
}

type ChangePlanCommand struct {
	OrganizationID uint
	NewPlanID      uint
	BillingCycle   subscription.BillingCycle
	ActorUserID    uint
	Note           string
}

// ChangePlan moves the organization's active subscription to another plan.
// The change is classified as UPGRADE or DOWNGRADE by tier rank; applying
// it to a cancelled or expired subscription records a REACTIVATION.
func (s *Service) ChangePlan(ctx context.Context, cmd ChangePlanCommand) (*SubscriptionDTO, error) {
	sub, err := s.activeSubscription(ctx, cmd.OrganizationID)
	if err != nil {
		return nil, err
	}

	fromPlanID := sub.PlanID()
	fromStatus := sub.Status()

	oldPlan, err := s.planRepo.GetByID(ctx, fromPlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current plan: %w", err)
	}

	newPlan, err := s.planRepo.GetByID(ctx, cmd.NewPlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get new plan: %w", err)
	}
	if newPlan == nil {
		return nil, apperrors.NewNotFoundError("plan not found")
	}
	if !newPlan.IsActive() {
		return nil, apperrors.NewValidationError("plan is not available")
	}

	if err := sub.ApplyPlanChange(cmd.NewPlanID, cmd.BillingCycle); err != nil {
		switch {
		case errors.Is(err, subscription.ErrSamePlan):
			return nil, apperrors.NewBadRequestError("subscription is already on that plan")
		case errors.Is(err, subscription.ErrInactive):
			return nil, apperrors.NewConflictError("subscription is no longer active")
		default:
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	changeType := subscription.ChangeTypeReactivation
	if fromStatus == subscription.StatusActive || fromStatus == subscription.StatusTrial || fromStatus == subscription.StatusPastDue {
		oldName := ""
		if oldPlan != nil {
			oldName = oldPlan.Name()
		}
		changeType = subscription.ClassifyChange(oldName, newPlan.Name())
	}

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.subRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		return s.appendHistory(txCtx, sub, changeType, fromPlanID, fromStatus, cmd.ActorUserID, cmd.Note)
	})
	if err != nil {
		s.logger.Errorw("failed to change plan", "error", err, "organization_id", cmd.OrganizationID)
		return nil, err
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.ActorUserID,
		OrganizationID: cmd.OrganizationID,
		Action:         domainaudit.ActionSubscriptionChange,
		TargetType:     "subscription",
		TargetID:       sub.SID(),
		Detail:         map[string]any{"plan": newPlan.Name(), "change_type": string(changeType)},
	})

	dto := toSubscriptionDTO(sub)
	dto.PlanName = newPlan.Name()
	return dto, nil
}

type ExtendTrialCommand struct {
	OrganizationID uint
	Days           int
	ActorUserID    uint
	Note           string
}

func (s *Service) ExtendTrial(ctx context.Context, cmd ExtendTrialCommand) (*SubscriptionDTO, error) {
	sub, err := s.activeSubscription(ctx, cmd.OrganizationID)
	if err != nil {
		return nil, err
	}

	fromStatus := sub.Status()
	if err := sub.ExtendTrial(cmd.Days); err != nil {
		if errors.Is(err, subscription.ErrNotTrialing) {
			return nil, apperrors.NewBadRequestError("subscription is not in trial")
		}
		return nil, apperrors.NewValidationError(err.Error())
	}

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.subRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		return s.appendHistory(txCtx, sub, subscription.ChangeTypeTrialExtend, sub.PlanID(), fromStatus, cmd.ActorUserID, cmd.Note)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.ActorUserID,
		OrganizationID: cmd.OrganizationID,
		Action:         domainaudit.ActionSubscriptionExtend,
		TargetType:     "subscription",
		TargetID:       sub.SID(),
		Detail:         map[string]any{"days": cmd.Days},
	})
	return toSubscriptionDTO(sub), nil
}

type CancelCommand struct {
	OrganizationID uint
	ActorUserID    uint
	Note           string
}

func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) (*SubscriptionDTO, error) {
	sub, err := s.activeSubscription(ctx, cmd.OrganizationID)
	if err != nil {
		return nil, err
	}

	fromStatus := sub.Status()
	if err := sub.Cancel(); err != nil {
		if errors.Is(err, subscription.ErrAlreadyCancelled) {
			return nil, apperrors.NewBadRequestError("subscription is already cancelled")
		}
		return nil, apperrors.NewValidationError(err.Error())
	}

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.subRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		return s.appendHistory(txCtx, sub, subscription.ChangeTypeCancel, sub.PlanID(), fromStatus, cmd.ActorUserID, cmd.Note)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.ActorUserID,
		OrganizationID: cmd.OrganizationID,
		Action:         domainaudit.ActionSubscriptionCancel,
		TargetType:     "subscription",
		TargetID:       sub.SID(),
	})

	s.logger.Infow("subscription cancelled", "subscription_id", sub.ID(), "organization_id", cmd.OrganizationID)
	return toSubscriptionDTO(sub), nil
}

type OverrideCommand struct {
	OrganizationID uint
	Status         subscription.Status
	ActorUserID    uint
	Note           string
}

// Override force-sets the subscription status, bypassing the transition
// rules. Reserved for platform operators; every use is recorded as a
// MANUAL_OVERRIDE with the operator's note.
func (s *Service) Override(ctx context.Context, cmd OverrideCommand) (*SubscriptionDTO, error) {
	if !cmd.Status.IsValid() {
		return nil, apperrors.NewValidationError("invalid subscription status")
	}
	if cmd.Note == "" {
		return nil, apperrors.NewValidationError("override note is required")
	}

	sub, err := s.activeSubscription(ctx, cmd.OrganizationID)
	if err != nil {
		return nil, err
	}

	fromStatus := sub.Status()
	var applyErr error
	switch cmd.Status {
	case subscription.StatusExpired:
		applyErr = sub.ForceExpire()
	case subscription.StatusPastDue:
		applyErr = sub.MarkPastDue()
	case subscription.StatusCanceled:
		applyErr = sub.Cancel()
	case subscription.StatusActive:
		applyErr = sub.Reactivate()
		if applyErr != nil && fromStatus == subscription.StatusTrial {
			applyErr = sub.ConvertTrial()
		}
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("cannot override to status %s", cmd.Status))
	}
	if applyErr != nil {
		return nil, apperrors.NewConflictError(applyErr.Error())
	}

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.subRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		return s.appendHistory(txCtx, sub, subscription.ChangeTypeManualOverride, sub.PlanID(), fromStatus, cmd.ActorUserID, cmd.Note)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.ActorUserID,
		OrganizationID: cmd.OrganizationID,
		Action:         domainaudit.ActionSubscriptionOverride,
		TargetType:     "subscription",
		TargetID:       sub.SID(),
		Detail:         map[string]any{"from": string(fromStatus), "to": string(cmd.Status), "note": cmd.Note},
	})

	s.logger.Warnw("subscription status overridden",
		"subscription_id", sub.ID(),
		"from", fromStatus,
		"to", cmd.Status,
		"actor_user_id", cmd.ActorUserID,
	)
	return toSubscriptionDTO(sub), nil
}

func (s *Service) GetForOrganization(ctx context.Context, organizationID uint) (*SubscriptionDTO, error) {
	sub, err := s.subRepo.GetActiveByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("organization has no subscription")
	}

	dto := toSubscriptionDTO(sub)
	if plan, err := s.planRepo.GetByID(ctx, sub.PlanID()); err == nil && plan != nil {
		dto.PlanName = plan.Name()
	}
	return dto, nil
}

func (s *Service) History(ctx context.Context, organizationID uint, page, pageSize int) ([]*HistoryDTO, int64, error) {
	records, total, err := s.historyRepo.ListByOrganization(ctx, organizationID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscription history: %w", err)
	}

	out := make([]*HistoryDTO, 0, len(records))
	for _, h := range records {
		out = append(out, toHistoryDTO(h))
	}
	return out, total, nil
}

// RenewalSweep expires every active subscription whose renewal date passed
// the grace period. It returns the number of subscriptions expired.
func (s *Service) RenewalSweep(ctx context.Context, graceDays int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -graceDays)
	due, err := s.subRepo.ListDueForRenewal(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list due subscriptions: %w", err)
	}

	expired := 0
	for _, sub := range due {
		if !sub.IsBillable() && sub.Status() != subscription.StatusPastDue {
			continue
		}
		fromStatus := sub.Status()
		if err := sub.ForceExpire(); err != nil {
			s.logger.Warnw("skipping unexpirable subscription", "error", err, "subscription_id", sub.ID())
			continue
		}

		err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
			if err := s.subRepo.Update(txCtx, sub); err != nil {
				return fmt.Errorf("failed to update subscription: %w", err)
			}
			return s.appendHistory(txCtx, sub, subscription.ChangeTypeManualOverride, sub.PlanID(), fromStatus, 0, "renewal sweep")
		})
		if err != nil {
			s.logger.Errorw("failed to expire subscription", "error", err, "subscription_id", sub.ID())
			continue
		}
		expired++
	}

	if expired > 0 {
		s.logger.Infow("renewal sweep completed", "expired", expired, "checked", len(due))
	}
	return expired, nil
}

// Revenue computes the monthly recurring revenue rollup over active rows.
// Yearly subscriptions contribute ten times the plan's monthly price,
// matching the two-months-free yearly discount.
func (s *Service) Revenue(ctx context.Context) (*RevenueDTO, error) {
	subs, err := s.subRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
	}

	plans := make(map[uint]*subscription.Plan)
	out := &RevenueDTO{TotalActiveRows: len(subs)}

	for _, sub := range subs {
		switch sub.Status() {
		case subscription.StatusActive:
			out.ActiveCount++
		case subscription.StatusTrial:
			out.TrialCount++
		case subscription.StatusPastDue:
			out.PastDueCount++
		case subscription.StatusCanceled:
			out.CancelledCount++
		case subscription.StatusExpired:
			out.ExpiredCount++
		}

		if !sub.IsBillable() || sub.IsTrial() {
			continue
		}

		plan, ok := plans[sub.PlanID()]
		if !ok {
			plan, err = s.planRepo.GetByID(ctx, sub.PlanID())
			if err != nil {
				return nil, fmt.Errorf("failed to get plan: %w", err)
			}
			plans[sub.PlanID()] = plan
		}
		if plan == nil {
			continue
		}

		if sub.BillingCycle() == subscription.BillingCycleYearly {
			out.MRR += plan.Price() * 10
		} else {
			out.MRR += plan.Price()
		}
	}
	return out, nil
}

func (s *Service) activeSubscription(ctx context.Context, organizationID uint) (*subscription.Subscription, error) {
	sub, err := s.subRepo.GetActiveByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("organization has no subscription")
	}
	return sub, nil
}

func (s *Service) appendHistory(ctx context.Context, sub *subscription.Subscription, changeType subscription.ChangeType, fromPlanID uint, fromStatus subscription.Status, actorUserID uint, note string) error {
	h, err := subscription.NewHistory(sub.ID(), sub.OrganizationID(), changeType, fromPlanID, sub.PlanID(), fromStatus, sub.Status(), actorUserID, note)
	if err != nil {
		return fmt.Errorf("failed to build history record: %w", err)
	}
	if err := s.historyRepo.Create(ctx, h); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}
