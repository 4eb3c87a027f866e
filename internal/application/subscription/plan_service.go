package subscription

import (
	"context"
	"fmt"

	auditapp "tessera/internal/application/audit"
	domainaudit "tessera/internal/domain/audit"
	"tessera/internal/domain/subscription"
	apperrors "tessera/internal/shared/errors"
	"tessera/internal/shared/id"
	"tessera/internal/shared/logger"
)

// PlanService manages the plan catalog.
type PlanService struct {
	planRepo subscription.PlanRepository
	auditSvc *auditapp.Service
	logger   logger.Interface
}

func NewPlanService(planRepo subscription.PlanRepository, auditSvc *auditapp.Service, logger logger.Interface) *PlanService {
	return &PlanService{planRepo: planRepo, auditSvc: auditSvc, logger: logger}
}

type CreatePlanCommand struct {
	Name        string
	Description string
	Price       int64
	YearlyPrice int64
	TrialDays   int
	ActorUserID uint
}

func (s *PlanService) CreatePlan(ctx context.Context, cmd CreatePlanCommand) (*PlanDTO, error) {
	sid, err := id.GenerateWithPrefix(id.PrefixPlan, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate plan SID: %w", err)
	}

	plan, err := subscription.NewPlan(sid, cmd.Name, cmd.Description, cmd.Price, cmd.YearlyPrice, cmd.TrialDays)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	existing, err := s.planRepo.GetByName(ctx, plan.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to check plan name: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("plan name already in use")
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		if apperrors.IsDuplicateError(err) {
			return nil, apperrors.NewConflictError("plan name already in use")
		}
		s.logger.Errorw("failed to create plan", "error", err, "name", cmd.Name)
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID: cmd.ActorUserID,
		Action:      domainaudit.ActionPlanCreate,
		TargetType:  "plan",
		TargetID:    plan.SID(),
		Detail:      map[string]any{"name": plan.Name(), "price": plan.Price()},
	})

	s.logger.Infow("plan created", "plan_id", plan.ID(), "name", plan.Name())
	return toPlanDTO(plan), nil
}

func (s *PlanService) GetPlan(ctx context.Context, planID uint) (*PlanDTO, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, apperrors.NewNotFoundError("plan not found")
	}
	return toPlanDTO(plan), nil
}

func (s *PlanService) ListPlans(ctx context.Context, includeArchived bool) ([]*PlanDTO, error) {
	plans, err := s.planRepo.List(ctx, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	out := make([]*PlanDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanDTO(p))
	}
	return out, nil
}

type UpdatePlanCommand struct {
	PlanID      uint
	Name        string
	Description string
	Price       int64
	YearlyPrice int64
	TrialDays   int
	ActorUserID uint
}

func (s *PlanService) UpdatePlan(ctx context.Context, cmd UpdatePlanCommand) (*PlanDTO, error) {
	plan, err := s.planRepo.GetByID(ctx, cmd.PlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, apperrors.NewNotFoundError("plan not found")
	}

	if err := plan.Update(cmd.Name, cmd.Description, cmd.Price, cmd.YearlyPrice, cmd.TrialDays); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID: cmd.ActorUserID,
		Action:      domainaudit.ActionPlanUpdate,
		TargetType:  "plan",
		TargetID:    plan.SID(),
		Detail:      map[string]any{"name": plan.Name()},
	})
	return toPlanDTO(plan), nil
}

// ArchivePlan retires a plan from sale. Existing subscriptions on the plan
// are unaffected.
func (s *PlanService) ArchivePlan(ctx context.Context, planID, actorUserID uint) error {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return apperrors.NewNotFoundError("plan not found")
	}

	plan.Archive()
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return fmt.Errorf("failed to archive plan: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID: actorUserID,
		Action:      domainaudit.ActionPlanArchive,
		TargetType:  "plan",
		TargetID:    plan.SID(),
		Detail:      map[string]any{"name": plan.Name()},
	})

	s.logger.Infow("plan archived", "plan_id", planID, "name", plan.Name())
	return nil
}
