// internal/app/system/authz/permissions.go
//
// Package authz holds the static role and workline permission tables.
// Every authorization decision in the application reads from these tables;
// permissions are never stored per user or trusted from a token.
package authz

import "github.com/dalemusser/hostpro/internal/domain/models"

// Permission grants access to one class of operation.
type Permission string

const (
	Read          Permission = "read"
	Write         Permission = "write"
	Delete        Permission = "delete"
	ManageUsers   Permission = "manage_users"
	ManagePages   Permission = "manage_pages"
	ManageTasks   Permission = "manage_tasks"
	ViewAnalytics Permission = "view_analytics"

	ManageClients   Permission = "manage_clients"
	ManageIncidents Permission = "manage_incidents"
	ManageThreats   Permission = "manage_threats"
	ManageServers   Permission = "manage_servers"
	ManageDomains   Permission = "manage_domains"

	AccessCybersecurity Permission = "access_cybersecurity"
	AccessHosting       Permission = "access_hosting"

	ManageCyberTasks     Permission = "manage_cyber_tasks"
	ManageCyberPages     Permission = "manage_cyber_pages"
	ManageCyberClients   Permission = "manage_cyber_clients"
	ManageHostingTasks   Permission = "manage_hosting_tasks"
	ManageHostingPages   Permission = "manage_hosting_pages"
	ManageHostingClients Permission = "manage_hosting_clients"
)

var rolePermissions = map[models.Role][]Permission{
	models.RoleAdmin: {
		Read, Write, Delete,
		ManageUsers, ManagePages, ManageTasks, ViewAnalytics,
		ManageClients, ManageIncidents, ManageThreats, ManageServers, ManageDomains,
		AccessCybersecurity, AccessHosting,
	},
	models.RoleModerator: {
		Read, Write,
		ManageTasks, ManagePages, ViewAnalytics,
		ManageClients, ManageIncidents, ManageServers,
	},
	models.RoleUser: {
		Read, ViewAnalytics,
	},
}

var worklinePermissions = map[models.Workline][]Permission{
	models.WorklineCybersecurity: {
		AccessCybersecurity, ManageCyberTasks, ManageCyberPages, ManageCyberClients,
		ManageIncidents, ManageThreats,
	},
	models.WorklineHosting: {
		AccessHosting, ManageHostingTasks, ManageHostingPages, ManageHostingClients,
		ManageServers, ManageDomains,
	},
}

// ForRole returns a copy of the permission set for role. Unknown roles get none.
func ForRole(role models.Role) []Permission {
	return clone(rolePermissions[role])
}

// RoleHas reports whether role's static set includes p.
func RoleHas(role models.Role, p Permission) bool {
	for _, have := range rolePermissions[role] {
		if have == p {
			return true
		}
	}
	return false
}

// ForWorkline returns a copy of the grants that come with membership of w.
func ForWorkline(w models.Workline) []Permission {
	return clone(worklinePermissions[w])
}

// ForWorklines returns the union of ForWorkline over ws, in table order.
func ForWorklines(ws []models.Workline) []Permission {
	var out []Permission
	seen := make(map[Permission]bool)
	for _, w := range ws {
		for _, p := range worklinePermissions[w] {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// Strings converts ps for storage or serialization.
func Strings(ps []Permission) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

func clone(ps []Permission) []Permission {
	out := make([]Permission, len(ps))
	copy(out, ps)
	return out
}
