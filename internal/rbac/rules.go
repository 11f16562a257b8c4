package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"employee": {
		"instruction:view",
		"instruction:ack",
		"quiz:view",
		"quiz:take",
		"results:view-own",
	},
	"manager": {
		"instruction:view",
		"instruction:create",
		"quiz:view",
		"quiz:create",
		"results:view-own",
		"results:view-all",
	},
	"admin": {
		"*", // everything
	},
}
