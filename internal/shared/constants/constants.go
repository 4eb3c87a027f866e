package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"

	// Context keys
	ContextKeyUserID         = "user_id"
	ContextKeyUserEmail      = "user_email"
	ContextKeyGlobalRole     = "global_role"
	ContextKeyRequestID      = "request_id"
	ContextKeyMembership     = "membership_context"
	ContextKeyOrganizationID = "organization_id"

	// User status
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"

	// Database table names
	TableUsers                   = "users"
	TableOrganizations           = "organizations"
	TableMemberships             = "memberships"
	TableOrganizationRoles       = "organization_roles"
	TablePlatformRoles           = "platform_roles"
	TablePlatformRolePermissions = "platform_role_permissions"
	TableUserPlatformRoles       = "user_platform_roles"
	TablePlans                   = "plans"
	TableSubscriptions           = "subscriptions"
	TableSubscriptionHistories   = "subscription_histories"
	TableAuditLogs               = "audit_logs"
	TableLeads                   = "leads"
	TableFinanceEntries          = "finance_entries"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
	ErrMsgValidationFailed    = "Validation failed"
	ErrMsgConflict            = "Resource already exists"
)
