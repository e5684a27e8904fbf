package auth

import "github.com/chronos-hq/chronos/internal/domain"

// Resource names an API entity type for policy lookup.
type Resource string

// Operation names a mutation or read against a resource.
type Operation string

const (
	ResourceTodo     Resource = "todo"
	ResourceCategory Resource = "category"
	ResourceUser     Resource = "user"
)

const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Rule describes who may perform an operation. Role is the required role
// (empty means any authenticated tenant member); OwnerScoped restricts the
// operation to rows owned by the caller.
type Rule struct {
	Role        domain.Role
	OwnerScoped bool
}

// The delete asymmetry is deliberate, documented behavior: any tenant admin
// may delete any todo in the tenant, while categories are deleted only by
// their owner regardless of role.
var rules = map[Resource]map[Operation]Rule{
	ResourceTodo: {
		OpCreate: {OwnerScoped: true},
		OpRead:   {OwnerScoped: true},
		OpUpdate: {OwnerScoped: true},
		OpDelete: {Role: domain.RoleAdmin, OwnerScoped: false},
	},
	ResourceCategory: {
		OpCreate: {OwnerScoped: true},
		OpRead:   {OwnerScoped: true},
		OpUpdate: {OwnerScoped: true},
		OpDelete: {OwnerScoped: true},
	},
	ResourceUser: {
		OpCreate: {Role: domain.RoleAdmin},
	},
}

// RuleFor returns the access rule for the resource/operation pair. Unknown
// pairs fall back to the most restrictive rule.
func RuleFor(resource Resource, op Operation) Rule {
	if ops, ok := rules[resource]; ok {
		if rule, ok := ops[op]; ok {
			return rule
		}
	}
	return Rule{Role: domain.RoleAdmin, OwnerScoped: true}
}

// Allows reports whether the given role satisfies the rule's role
// requirement.
func (r Rule) Allows(role domain.Role) bool {
	return r.Role == "" || r.Role == role
}
