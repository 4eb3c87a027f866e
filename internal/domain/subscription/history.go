package subscription

import (
	"fmt"
	"time"
)

type ChangeType string

const (
	ChangeTypeUpgrade        ChangeType = "UPGRADE"
	ChangeTypeDowngrade      ChangeType = "DOWNGRADE"
	ChangeTypeTrialStart     ChangeType = "TRIAL_START"
	ChangeTypeTrialExtend    ChangeType = "TRIAL_EXTEND"
	ChangeTypeCancel         ChangeType = "CANCEL"
	ChangeTypeReactivation   ChangeType = "REACTIVATION"
	ChangeTypeManualOverride ChangeType = "MANUAL_OVERRIDE"
)

// ClassifyChange labels a plan move by comparing tier ranks. A lateral move
// (equal ranks, e.g. a billing cycle switch) counts as an upgrade.
func ClassifyChange(fromPlanName, toPlanName string) ChangeType {
	if TierRank(toPlanName) < TierRank(fromPlanName) {
		return ChangeTypeDowngrade
	}
	return ChangeTypeUpgrade
}

// History is one append-only record of a subscription lifecycle change.
// FromPlanID is zero for the initial record of a new subscription.
type History struct {
	id             uint
	subscriptionID uint
	organizationID uint
	changeType     ChangeType
	fromPlanID     uint
	toPlanID       uint
	fromStatus     Status
	toStatus       Status
	actorUserID    uint
	note           string
	createdAt      time.Time
}

func NewHistory(subscriptionID, organizationID uint, changeType ChangeType, fromPlanID, toPlanID uint, fromStatus, toStatus Status, actorUserID uint, note string) (*History, error) {
	if subscriptionID == 0 {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if organizationID == 0 {
		return nil, fmt.Errorf("organization ID is required")
	}
	if changeType == "" {
		return nil, fmt.Errorf("change type is required")
	}

	return &History{
		subscriptionID: subscriptionID,
		organizationID: organizationID,
		changeType:     changeType,
		fromPlanID:     fromPlanID,
		toPlanID:       toPlanID,
		fromStatus:     fromStatus,
		toStatus:       toStatus,
		actorUserID:    actorUserID,
		note:           note,
		createdAt:      time.Now(),
	}, nil
}

func ReconstructHistory(id, subscriptionID, organizationID uint, changeType ChangeType, fromPlanID, toPlanID uint, fromStatus, toStatus Status, actorUserID uint, note string, createdAt time.Time) *History {
	return &History{
		id:             id,
		subscriptionID: subscriptionID,
		organizationID: organizationID,
		changeType:     changeType,
		fromPlanID:     fromPlanID,
		toPlanID:       toPlanID,
		fromStatus:     fromStatus,
		toStatus:       toStatus,
		actorUserID:    actorUserID,
		note:           note,
		createdAt:      createdAt,
	}
}

func (h *History) ID() uint {
	return h.id
}

func (h *History) SetID(id uint) error {
	if h.id != 0 {
		return fmt.Errorf("history ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("history ID cannot be zero")
	}
	h.id = id
	return nil
}

func (h *History) SubscriptionID() uint {
	return h.subscriptionID
}

func (h *History) OrganizationID() uint {
	return h.organizationID
}

func (h *History) ChangeType() ChangeType {
	return h.changeType
}

func (h *History) FromPlanID() uint {
	return h.fromPlanID
}

func (h *History) ToPlanID() uint {
	return h.toPlanID
}

func (h *History) FromStatus() Status {
	return h.fromStatus
}

func (h *History) ToStatus() Status {
	return h.toStatus
}

func (h *History) ActorUserID() uint {
	return h.actorUserID
}

func (h *History) Note() string {
	return h.note
}

func (h *History) CreatedAt() time.Time {
	return h.createdAt
}
