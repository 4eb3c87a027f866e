package organization

import (
	"context"
	"fmt"

	"tessera/internal/domain/organization"
	apperrors "tessera/internal/shared/errors"
	"tessera/internal/shared/logger"
)

// Resolver loads the caller's membership context for an organization. The
// context carries the coarse role, its legacy permission set, and the
// effective module grants (custom role grants when attached and present,
// the role's fallback grants otherwise).
type Resolver struct {
	orgRepo        organization.Repository
	membershipRepo organization.MembershipRepository
	customRoleRepo organization.CustomRoleRepository
	logger         logger.Interface
}

func NewResolver(
	orgRepo organization.Repository,
	membershipRepo organization.MembershipRepository,
	customRoleRepo organization.CustomRoleRepository,
	logger logger.Interface,
) *Resolver {
	return &Resolver{
		orgRepo:        orgRepo,
		membershipRepo: membershipRepo,
		customRoleRepo: customRoleRepo,
		logger:         logger,
	}
}

// Resolve returns the membership context for userID in the organization
// identified by SID. A missing organization yields NotFound; an existing
// organization where the user holds no membership yields Forbidden, so the
// two cases are distinguishable to the client.
func (r *Resolver) Resolve(ctx context.Context, userID uint, orgSID string) (*organization.MembershipContext, *organization.Organization, error) {
	org, err := r.orgRepo.GetBySID(ctx, orgSID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return nil, nil, apperrors.NewNotFoundError("organization not found")
	}

	membership, err := r.membershipRepo.GetByUserAndOrg(ctx, userID, org.ID())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if membership == nil {
		return nil, nil, apperrors.NewForbiddenError("not a member of this organization")
	}

	var customRole *organization.CustomRole
	if raw := membership.CustomRoleID(); raw != nil {
		customRole, err = r.customRoleRepo.GetByID(ctx, *raw)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get custom role: %w", err)
		}
		if customRole != nil && customRole.OrganizationID() != org.ID() {
			customRole = nil
		}
		if customRole == nil {
			// Dangling reference: the role was deleted after assignment.
			// NewMembershipContext falls back to the coarse role's grants.
			r.logger.Warnw("membership references missing custom role",
				"membership_id", membership.ID(),
				"custom_role_id", *raw,
			)
		}
	}

	return organization.NewMembershipContext(membership, customRole), org, nil
}
