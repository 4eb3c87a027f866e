package organization

// MembershipContext is the resolved authorization context attached to a
// request after membership loading. It carries both the legacy coarse
// permission set and the fine-grained module/action grants side by side;
// the two models are never unified.
type MembershipContext struct {
	Membership        *Membership
	LegacyPermissions []Permission
	Grants            []ModuleGrant
}

// NewMembershipContext resolves the effective permissions for a
// membership. When customRole is non-nil its grants win; otherwise the
// static fallback table for the membership's legacy role applies. A
// dangling custom-role reference resolves through the fallback rather
// than failing.
func NewMembershipContext(membership *Membership, customRole *CustomRole) *MembershipContext {
	ctx := &MembershipContext{
		Membership:        membership,
		LegacyPermissions: LegacyPermissionsFor(membership.Role()),
	}

	if customRole != nil {
		ctx.Grants = customRole.Grants()
	} else {
		ctx.Grants = FallbackGrantsFor(membership.Role())
	}

	return ctx
}

// IsOwner reports whether the context belongs to the organization owner.
func (c *MembershipContext) IsOwner() bool {
	return c.Membership != nil && c.Membership.IsOwner()
}

// HasPermission checks the legacy coarse set. Ownership is structurally
// guaranteed: the owner passes regardless of the resolved set so a stale
// permission table can never lock the owner out.
func (c *MembershipContext) HasPermission(p Permission) bool {
	if c.IsOwner() {
		return true
	}
	for _, perm := range c.LegacyPermissions {
		if perm == p {
			return true
		}
	}
	return false
}

// AllowsModuleAction checks the fine-grained grant list. The owner
// bypass applies here as well, even against an empty grant list.
func (c *MembershipContext) AllowsModuleAction(module Module, action Action) bool {
	if c.IsOwner() {
		return true
	}
	return GrantsAllow(c.Grants, module, action)
}

// HasRole reports whether the membership's static role is in the set.
func (c *MembershipContext) HasRole(roles ...Role) bool {
	if c.Membership == nil {
		return false
	}
	for _, r := range roles {
		if c.Membership.Role() == r {
			return true
		}
	}
	return false
}
