package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	auditapp "tessera/internal/application/audit"
	authzapp "tessera/internal/application/authz"
	crmapp "tessera/internal/application/crm"
	financeapp "tessera/internal/application/finance"
	orgapp "tessera/internal/application/organization"
	subapp "tessera/internal/application/subscription"
	userapp "tessera/internal/application/user"
	"tessera/internal/domain/authz"
	"tessera/internal/domain/organization"
	"tessera/internal/infrastructure/auth"
	"tessera/internal/infrastructure/config"
	"tessera/internal/infrastructure/email"
	"tessera/internal/infrastructure/markdown"
	"tessera/internal/infrastructure/ratelimit"
	"tessera/internal/infrastructure/repository"
	"tessera/internal/interfaces/http/handlers"
	"tessera/internal/interfaces/http/middleware"
	"tessera/internal/shared/db"
	"tessera/internal/shared/logger"
)

// Router wires repositories, services, handlers and middleware into a
// Gin engine.
type Router struct {
	engine *gin.Engine

	authHandler         *handlers.AuthHandler
	userHandler         *handlers.UserHandler
	orgHandler          *handlers.OrganizationHandler
	memberHandler       *handlers.MemberHandler
	customRoleHandler   *handlers.CustomRoleHandler
	platformRoleHandler *handlers.PlatformRoleHandler
	planHandler         *handlers.PlanHandler
	subscriptionHandler *handlers.SubscriptionHandler
	leadHandler         *handlers.LeadHandler
	financeHandler      *handlers.FinanceHandler
	auditHandler        *handlers.AuditHandler

	authMiddleware       *middleware.AuthMiddleware
	membershipMiddleware *middleware.MembershipMiddleware
	platformMiddleware   *middleware.PlatformMiddleware
	apiLimiter           *middleware.RateLimiter
	loginLimiter         *middleware.RateLimiter

	log logger.Interface
}

// NewRouter creates the router and wires every dependency. redisClient
// may be nil when rate limiting is disabled.
func NewRouter(database *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	// Repositories
	userRepo := repository.NewUserRepository(database, log)
	orgRepo := repository.NewOrganizationRepository(database, log)
	membershipRepo := repository.NewMembershipRepository(database, log)
	customRoleRepo := repository.NewOrganizationRoleRepository(database, log)
	platformRoleRepo := repository.NewPlatformRoleRepository(database, log)
	assignmentRepo := repository.NewAssignmentRepository(database, log)
	planRepo := repository.NewPlanRepository(database, log)
	subRepo := repository.NewSubscriptionRepository(database, log)
	historyRepo := repository.NewSubscriptionHistoryRepository(database, log)
	auditRepo := repository.NewAuditLogRepository(database, log)
	leadRepo := repository.NewLeadRepository(database, log)
	financeRepo := repository.NewFinanceEntryRepository(database, log)

	txManager := db.NewTransactionManager(database)

	// Infrastructure services
	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	noteRenderer := markdown.NewRenderer()

	var inviteSender orgapp.InviteSender
	if cfg.Email.Enabled {
		inviteSender = email.NewSMTPInviteSender(email.SMTPConfig{
			Host:        cfg.Email.SMTPHost,
			Port:        cfg.Email.SMTPPort,
			Username:    cfg.Email.SMTPUser,
			Password:    cfg.Email.SMTPPassword,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
		}, log)
	} else {
		inviteSender = email.NewNoopInviteSender(log)
	}

	// Application services
	auditService := auditapp.NewService(auditRepo, log)
	userService := userapp.NewService(userRepo, hasher, jwtService, auditService, log)
	orgService := orgapp.NewService(orgRepo, membershipRepo, txManager, auditService, log)
	memberService := orgapp.NewMemberService(orgRepo, membershipRepo, customRoleRepo, userRepo, inviteSender, auditService, log)
	orgResolver := orgapp.NewResolver(orgRepo, membershipRepo, customRoleRepo, log)
	authzService := authzapp.NewService(platformRoleRepo, assignmentRepo, log)
	authzResolver := authzapp.NewResolver(platformRoleRepo, assignmentRepo, log)
	planService := subapp.NewPlanService(planRepo, auditService, log)
	subService := subapp.NewService(subRepo, planRepo, historyRepo, txManager, auditService, log)
	crmService := crmapp.NewService(leadRepo, noteRenderer, auditService, log)
	financeService := financeapp.NewService(financeRepo, auditService, log)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)
	membershipMiddleware := middleware.NewMembershipMiddleware(orgResolver, log)
	platformMiddleware := middleware.NewPlatformMiddleware(authzResolver, log)

	var apiLimiter, loginLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled && redisClient != nil {
		limiter := ratelimit.NewRedisRateLimiter(redisClient)
		apiLimiter = middleware.NewRateLimiter(limiter, ratelimit.Config{RequestsPerMinute: cfg.RateLimit.RequestsPerMinute}, "api")
		loginLimiter = middleware.NewRateLimiter(limiter, ratelimit.Config{RequestsPerMinute: cfg.RateLimit.LoginPerMinute}, "login")
	}

	return &Router{
		engine:              engine,
		authHandler:         handlers.NewAuthHandler(userService, log),
		userHandler:         handlers.NewUserHandler(userService, log),
		orgHandler:          handlers.NewOrganizationHandler(orgService, log),
		memberHandler:       handlers.NewMemberHandler(memberService, log),
		customRoleHandler:   handlers.NewCustomRoleHandler(memberService, log),
		platformRoleHandler: handlers.NewPlatformRoleHandler(authzService, log),
		planHandler:         handlers.NewPlanHandler(planService, log),
		subscriptionHandler: handlers.NewSubscriptionHandler(subService, orgService, log),
		leadHandler:         handlers.NewLeadHandler(crmService, log),
		financeHandler:      handlers.NewFinanceHandler(financeService, log),
		auditHandler:        handlers.NewAuditHandler(auditService, log),

		authMiddleware:       authMiddleware,
		membershipMiddleware: membershipMiddleware,
		platformMiddleware:   platformMiddleware,
		apiLimiter:           apiLimiter,
		loginLimiter:         loginLimiter,

		log: log,
	}
}

// limit returns the limiter middleware, or a no-op when rate limiting is
// disabled.
func limit(rl *middleware.RateLimiter) gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rl.Limit()
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes(allowedOrigins []string) {
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.ErrorHandler())
	r.engine.Use(middleware.CORS(allowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", limit(r.loginLimiter), r.authHandler.Register)
		authGroup.POST("/login", limit(r.loginLimiter), r.authHandler.Login)

		me := authGroup.Group("", r.authMiddleware.RequireAuth())
		{
			me.GET("/me", r.authHandler.Me)
			me.PUT("/me", r.authHandler.UpdateProfile)
			me.PUT("/me/password", r.authHandler.ChangePassword)
		}
	}

	orgs := api.Group("/organizations", limit(r.apiLimiter), r.authMiddleware.RequireAuth())
	{
		orgs.POST("", r.orgHandler.CreateOrganization)
		orgs.GET("", r.orgHandler.ListMyOrganizations)

		org := orgs.Group("/:orgSID", r.membershipMiddleware.Load())
		{
			org.GET("", r.orgHandler.GetOrganization)
			org.PUT("",
				r.membershipMiddleware.RequireModuleAction(organization.ModuleSettings, organization.ActionUpdate),
				r.orgHandler.RenameOrganization)
			org.DELETE("", r.membershipMiddleware.RequireOwner(), r.orgHandler.DeleteOrganization)
			org.POST("/transfer-ownership", r.membershipMiddleware.RequireOwner(), r.orgHandler.TransferOwnership)

			members := org.Group("/members")
			{
				members.GET("",
					r.membershipMiddleware.RequireModuleAction(organization.ModuleUsers, organization.ActionRead),
					r.memberHandler.ListMembers)
				members.POST("",
					r.membershipMiddleware.RequireModuleAction(organization.ModuleUsers, organization.ActionCreate),
					r.memberHandler.AddMember)
				members.PUT("/:userID/role", r.membershipMiddleware.RequireAdmin(), r.memberHandler.ChangeMemberRole)
				members.PUT("/:userID/custom-role", r.membershipMiddleware.RequireAdmin(), r.memberHandler.AssignCustomRole)
				members.DELETE("/:userID",
					r.membershipMiddleware.RequireModuleAction(organization.ModuleUsers, organization.ActionDelete),
					r.memberHandler.RemoveMember)
			}

			roles := org.Group("/roles", r.membershipMiddleware.RequireAdmin())
			{
				roles.GET("", r.customRoleHandler.ListCustomRoles)
				roles.POST("", r.customRoleHandler.CreateCustomRole)
				roles.PUT("/:roleID", r.customRoleHandler.UpdateCustomRole)
				roles.DELETE("/:roleID", r.customRoleHandler.DeleteCustomRole)
			}

			leads := org.Group("/leads")
			{
				leads.GET("",
					r.membershipMiddleware.RequireModuleAction(organization.ModuleCRM, organization.ActionRead),
					r.leadHandler.ListLeads)
				leads.POST("",
					r.membershipMiddleware.RequireModuleAction(organization.ModuleCRM, organization.ActionCreate),
					r.leadHandler.CreateLead)
				leads.GET("/:leadSID",
					r.membershipMiddleware.RequireModuleAction(organization.ModuleCRM, organization.ActionRead),
					r.leadHandler.GetLead)
				leads.PUT("/:leadSID",
					r.membershipMiddleware.RequireModuleAction(organization.ModuleCRM, organization.ActionUpdate),
					r.leadHandler.UpdateLead)
				leads.PUT("/:leadSID/assignee",
					r.membershipMiddleware.RequireModuleAction(organization.ModuleCRM, organization.ActionUpdate),
					r.leadHandler.AssignLead)
				leads.DELETE("/:leadSID",
					r.membershipMiddleware.RequireModuleAction(organization.ModuleCRM, organization.ActionDelete),
					r.leadHandler.DeleteLead)
			}

			finance := org.Group("/finance")
			{
				finance.GET("/entries",
					r.membershipMiddleware.RequireModuleAction(organization.ModuleFinance, organization.ActionRead),
					r.financeHandler.ListEntries)
				finance.POST("/entries",
					r.membershipMiddleware.RequireModuleAction(organization.ModuleFinance, organization.ActionCreate),
					r.financeHandler.CreateEntry)
				finance.GET("/entries/:entrySID",
					r.membershipMiddleware.RequireModuleAction(organization.ModuleFinance, organization.ActionRead),
					r.financeHandler.GetEntry)
				finance.PUT("/entries/:entrySID",
					r.membershipMiddleware.RequireModuleAction(organization.ModuleFinance, organization.ActionUpdate),
					r.financeHandler.UpdateEntry)
				finance.DELETE("/entries/:entrySID",
					r.membershipMiddleware.RequireModuleAction(organization.ModuleFinance, organization.ActionDelete),
					r.financeHandler.DeleteEntry)
				finance.GET("/summary",
					r.membershipMiddleware.RequireModuleAction(organization.ModuleReports, organization.ActionRead),
					r.financeHandler.MonthlySummary)
			}

			billing := org.Group("/billing",
				r.membershipMiddleware.RequireModuleAction(organization.ModuleBilling, organization.ActionRead))
			{
				billing.GET("/subscription", r.subscriptionHandler.GetOwnSubscription)
				billing.GET("/subscription/history", r.subscriptionHandler.GetOwnHistory)
			}

			org.GET("/audit-log", r.membershipMiddleware.RequireAdmin(), r.auditHandler.ListOrganizationAuditLog)
		}
	}

	admin := api.Group("/admin", limit(r.apiLimiter), r.authMiddleware.RequireAuth())
	{
		admin.GET("/dashboard/revenue",
			r.platformMiddleware.RequirePermission(authz.PermDashboardView),
			r.subscriptionHandler.Revenue)

		adminOrgs := admin.Group("/organizations")
		{
			adminOrgs.GET("",
				r.platformMiddleware.RequirePermission(authz.PermOrgView),
				r.orgHandler.AdminListOrganizations)
			adminOrgs.GET("/:orgSID",
				r.platformMiddleware.RequirePermission(authz.PermOrgView),
				r.orgHandler.AdminGetOrganization)
			adminOrgs.PUT("/:orgSID/suspend",
				r.platformMiddleware.RequirePermission(authz.PermOrgManage),
				r.orgHandler.AdminSuspendOrganization)
			adminOrgs.PUT("/:orgSID/activate",
				r.platformMiddleware.RequirePermission(authz.PermOrgManage),
				r.orgHandler.AdminActivateOrganization)

			sub := adminOrgs.Group("/:orgSID/subscription")
			{
				sub.GET("",
					r.platformMiddleware.RequirePermission(authz.PermSubscriptionView),
					r.subscriptionHandler.GetSubscription)
				sub.GET("/history",
					r.platformMiddleware.RequirePermission(authz.PermSubscriptionView),
					r.subscriptionHandler.GetHistory)
				sub.POST("",
					r.platformMiddleware.RequirePermission(authz.PermSubscriptionManage),
					r.subscriptionHandler.StartSubscription)
				sub.PUT("/plan",
					r.platformMiddleware.RequirePermission(authz.PermSubscriptionManage),
					r.subscriptionHandler.ChangePlan)
				sub.POST("/extend-trial",
					r.platformMiddleware.RequirePermission(authz.PermSubscriptionManage),
					r.subscriptionHandler.ExtendTrial)
				sub.POST("/cancel",
					r.platformMiddleware.RequirePermission(authz.PermSubscriptionManage),
					r.subscriptionHandler.CancelSubscription)
				sub.POST("/override",
					r.platformMiddleware.RequirePermission(authz.PermSubscriptionManage),
					r.subscriptionHandler.OverrideSubscription)
			}
		}

		adminUsers := admin.Group("/users")
		{
			adminUsers.GET("",
				r.platformMiddleware.RequirePermission(authz.PermUserView),
				r.userHandler.ListUsers)
			adminUsers.GET("/:userID",
				r.platformMiddleware.RequirePermission(authz.PermUserView),
				r.userHandler.GetUser)
			adminUsers.PUT("/:userID/global-role",
				r.platformMiddleware.RequireSuperAdmin(),
				r.userHandler.SetGlobalRole)
			adminUsers.PUT("/:userID/suspend",
				r.platformMiddleware.RequirePermission(authz.PermUserManage),
				r.userHandler.SuspendUser)
			adminUsers.PUT("/:userID/activate",
				r.platformMiddleware.RequirePermission(authz.PermUserManage),
				r.userHandler.ActivateUser)
			adminUsers.GET("/:userID/platform-roles",
				r.platformMiddleware.RequirePermission(authz.PermRoleView),
				r.platformRoleHandler.ListUserAssignments)
		}

		adminRoles := admin.Group("/platform-roles")
		{
			adminRoles.GET("/catalog",
				r.platformMiddleware.RequirePermission(authz.PermRoleView),
				r.platformRoleHandler.ListCatalog)
			adminRoles.GET("",
				r.platformMiddleware.RequirePermission(authz.PermRoleView),
				r.platformRoleHandler.ListRoles)
			adminRoles.GET("/:roleID",
				r.platformMiddleware.RequirePermission(authz.PermRoleView),
				r.platformRoleHandler.GetRole)
			adminRoles.POST("",
				r.platformMiddleware.RequirePermission(authz.PermRoleManage),
				r.platformRoleHandler.CreateRole)
			adminRoles.PUT("/:roleID",
				r.platformMiddleware.RequirePermission(authz.PermRoleManage),
				r.platformRoleHandler.UpdateRole)
			adminRoles.DELETE("/:roleID",
				r.platformMiddleware.RequirePermission(authz.PermRoleManage),
				r.platformRoleHandler.DeleteRole)
			adminRoles.POST("/:roleID/assignments",
				r.platformMiddleware.RequirePermission(authz.PermRoleManage),
				r.platformRoleHandler.AssignRole)
			adminRoles.DELETE("/:roleID/assignments/:userID",
				r.platformMiddleware.RequirePermission(authz.PermRoleManage),
				r.platformRoleHandler.RevokeRole)
		}

		adminPlans := admin.Group("/plans")
		{
			adminPlans.GET("",
				r.platformMiddleware.RequirePermission(authz.PermPlanView),
				r.planHandler.ListPlans)
			adminPlans.GET("/:planID",
				r.platformMiddleware.RequirePermission(authz.PermPlanView),
				r.planHandler.GetPlan)
			adminPlans.POST("",
				r.platformMiddleware.RequirePermission(authz.PermPlanManage),
				r.planHandler.CreatePlan)
			adminPlans.PUT("/:planID",
				r.platformMiddleware.RequirePermission(authz.PermPlanManage),
				r.planHandler.UpdatePlan)
			adminPlans.PUT("/:planID/archive",
				r.platformMiddleware.RequirePermission(authz.PermPlanManage),
				r.planHandler.ArchivePlan)
		}

		admin.GET("/audit-log",
			r.platformMiddleware.RequirePermission(authz.PermAuditView),
			r.auditHandler.ListAuditLog)
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
