package subscription

import "errors"

var (
	// ErrSamePlan is returned when a plan change targets the plan the
	// subscription is already on with the same billing cycle.
	ErrSamePlan = errors.New("subscription is already on the requested plan")

	// ErrAlreadyCancelled is returned when cancelling a subscription that
	// is already cancelled or expired.
	ErrAlreadyCancelled = errors.New("subscription is already cancelled")

	// ErrNotTrialing is returned when a trial operation is applied to a
	// subscription that is not in trial.
	ErrNotTrialing = errors.New("subscription is not in trial")

	// ErrInactive is returned when a lifecycle operation targets a
	// deactivated subscription row.
	ErrInactive = errors.New("subscription is not the active row for its organization")
)
