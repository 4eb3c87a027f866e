package organization

// Module identifies a tenant-scoped business module that fine-grained
// grants are expressed against.
type Module string

const (
	ModuleCRM      Module = "crm"
	ModuleFinance  Module = "finance"
	ModuleUsers    Module = "users"
	ModuleSettings Module = "settings"
	ModuleBilling  Module = "billing"
	ModuleReports  Module = "reports"
)

// AllModules lists every tenant module, in display order.
var AllModules = []Module{
	ModuleCRM,
	ModuleFinance,
	ModuleUsers,
	ModuleSettings,
	ModuleBilling,
	ModuleReports,
}

// Action is a CRUD-like capability within a module. ActionManage is a
// wildcard meaning every action for that module.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionRead   Action = "READ"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionManage Action = "MANAGE"
)

// ConcreteActions are the enumerable non-wildcard actions.
var ConcreteActions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

// ModuleGrant grants a set of actions on one module. Multiple grants for
// the same module compose by union.
type ModuleGrant struct {
	Module  Module   `json:"module"`
	Actions []Action `json:"actions"`
}

// GrantsAllow reports whether the grant list permits the action on the
// module. The effective action set for a module is the union of actions
// across every grant naming it; ActionManage passes any action.
func GrantsAllow(grants []ModuleGrant, module Module, action Action) bool {
	for _, g := range grants {
		if g.Module != module {
			continue
		}
		for _, a := range g.Actions {
			if a == action || a == ActionManage {
				return true
			}
		}
	}
	return false
}
