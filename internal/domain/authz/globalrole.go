package authz

// GlobalRole is the platform-wide role claim carried by a verified token.
// It is independent of any organization membership.
type GlobalRole string

const (
	// GlobalRoleSuperAdmin is the sentinel that bypasses all platform
	// permission checks without touching the role store.
	GlobalRoleSuperAdmin GlobalRole = "SUPER_ADMIN"
	GlobalRoleAdmin      GlobalRole = "ADMIN"
	GlobalRoleSupport    GlobalRole = "SUPPORT"
	GlobalRoleUser       GlobalRole = "USER"
)

func (r GlobalRole) String() string {
	return string(r)
}

func (r GlobalRole) IsSuperAdmin() bool {
	return r == GlobalRoleSuperAdmin
}

func (r GlobalRole) IsValid() bool {
	switch r {
	case GlobalRoleSuperAdmin, GlobalRoleAdmin, GlobalRoleSupport, GlobalRoleUser:
		return true
	}
	return false
}

// ParseGlobalRole maps an arbitrary claim string to a role, defaulting to
// the unprivileged user role.
func ParseGlobalRole(s string) GlobalRole {
	role := GlobalRole(s)
	if role.IsValid() {
		return role
	}
	return GlobalRoleUser
}
