package audit

import (
	"fmt"
	"time"
)

// Action names follow a noun.verb convention, e.g. "organization.create",
// "subscription.plan_change", "member.role_change".
type Action string

const (
	ActionOrganizationCreate   Action = "organization.create"
	ActionOrganizationUpdate   Action = "organization.update"
	ActionOrganizationDelete   Action = "organization.delete"
	ActionOrganizationTransfer Action = "organization.transfer_ownership"
	ActionMemberAdd            Action = "member.add"
	ActionMemberRemove         Action = "member.remove"
	ActionMemberRoleChange     Action = "member.role_change"
	ActionMemberInvite         Action = "member.invite"
	ActionCustomRoleCreate     Action = "custom_role.create"
	ActionCustomRoleUpdate     Action = "custom_role.update"
	ActionCustomRoleDelete     Action = "custom_role.delete"
	ActionPlatformRoleCreate   Action = "platform_role.create"
	ActionPlatformRoleUpdate   Action = "platform_role.update"
	ActionPlatformRoleDelete   Action = "platform_role.delete"
	ActionPlatformRoleAssign   Action = "platform_role.assign"
	ActionPlatformRoleRevoke   Action = "platform_role.revoke"
	ActionSubscriptionCreate   Action = "subscription.create"
	ActionSubscriptionChange   Action = "subscription.plan_change"
	ActionSubscriptionCancel   Action = "subscription.cancel"
	ActionSubscriptionExtend   Action = "subscription.trial_extend"
	ActionSubscriptionOverride Action = "subscription.manual_override"
	ActionPlanCreate           Action = "plan.create"
	ActionPlanUpdate           Action = "plan.update"
	ActionPlanArchive          Action = "plan.archive"
	ActionLeadCreate           Action = "lead.create"
	ActionLeadUpdate           Action = "lead.update"
	ActionLeadDelete           Action = "lead.delete"
	ActionFinanceCreate        Action = "finance.create"
	ActionFinanceUpdate        Action = "finance.update"
	ActionFinanceDelete        Action = "finance.delete"
	ActionUserLogin            Action = "user.login"
	ActionUserRoleChange       Action = "user.global_role_change"
)

// Entry is one append-only audit record. Entries are written after the
// audited operation commits and are never updated or deleted.
type Entry struct {
	id             uint
	actorUserID    uint
	organizationID uint
	action         Action
	targetType     string
	targetID       string
	detail         map[string]any
	ipAddress      string
	createdAt      time.Time
}

func NewEntry(actorUserID, organizationID uint, action Action, targetType, targetID string, detail map[string]any, ipAddress string) (*Entry, error) {
	if actorUserID == 0 {
		return nil, fmt.Errorf("actor user ID is required")
	}
	if action == "" {
		return nil, fmt.Errorf("audit action is required")
	}

	return &Entry{
		actorUserID:    actorUserID,
		organizationID: organizationID,
		action:         action,
		targetType:     targetType,
		targetID:       targetID,
		detail:         detail,
		ipAddress:      ipAddress,
		createdAt:      time.Now(),
	}, nil
}

func ReconstructEntry(id, actorUserID, organizationID uint, action Action, targetType, targetID string, detail map[string]any, ipAddress string, createdAt time.Time) *Entry {
	return &Entry{
		id:             id,
		actorUserID:    actorUserID,
		organizationID: organizationID,
		action:         action,
		targetType:     targetType,
		targetID:       targetID,
		detail:         detail,
		ipAddress:      ipAddress,
		createdAt:      createdAt,
	}
}

func (e *Entry) ID() uint {
	return e.id
}

func (e *Entry) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("audit entry ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("audit entry ID cannot be zero")
	}
	e.id = id
	return nil
}

func (e *Entry) ActorUserID() uint {
	return e.actorUserID
}

func (e *Entry) OrganizationID() uint {
	return e.organizationID
}

func (e *Entry) Action() Action {
	return e.action
}

func (e *Entry) TargetType() string {
	return e.targetType
}

func (e *Entry) TargetID() string {
	return e.targetID
}

func (e *Entry) Detail() map[string]any {
	return e.detail
}

func (e *Entry) IPAddress() string {
	return e.ipAddress
}

func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}
