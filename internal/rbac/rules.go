package rbac

// Default policy for the quiz platform roles. Expand as needed.
var RolePermissions = map[string][]string{
	"user": {
		"quiz:view",
		"exam:take",
		"exam:submit",
		"submission:view-own",
		"profile:update",
	},
	"admin": {
		"*", // everything
	},
}
