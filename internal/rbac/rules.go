package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"exam:view",
	},
	"teacher": {
		"exam:create",
		"exam:view",
		"exam:update",
		"exam:publish",
		"exam:configure_evaluation",
		"dashboard:view",
		"review:view",
		"review:grade",
		"record:submit",
	},
	"admin": {
		"*", // everything
	},
}
