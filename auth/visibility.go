// ABOUTME: Role-based visibility for analytics reads
// ABOUTME: Maps a requesting user to the owner restriction the engine threads through
package auth

import (
	"net/http"

	"github.com/harperreed/crmpulse/analytics"
)

// Role is a user's access level.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleRep     Role = "rep"
)

// User is the requesting principal. An empty ID is an anonymous local
// caller, treated as a rep who owns nothing.
type User struct {
	ID   string
	Role Role
}

// Action is a named analytics capability.
type Action string

const (
	ActionViewReports   Action = "view_reports"
	ActionViewDashboard Action = "view_dashboard"
)

// VisibilityFor maps a user to the row restriction applied to every
// read. Admins and managers see the whole book of business; reps see
// only records they own. The restriction is computed once per request
// and never widened downstream.
func VisibilityFor(u User, _ Action) analytics.Visibility {
	switch u.Role {
	case RoleAdmin, RoleManager:
		return analytics.Visibility{}
	default:
		return analytics.Visibility{OwnerID: u.ID}
	}
}

// UserFromRequest reads the caller identity from the proxy-set headers.
// No headers means a local admin session; the server binds to localhost
// and trusts whatever fronts it to strip client-supplied values.
func UserFromRequest(r *http.Request) User {
	id := r.Header.Get("X-User-ID")
	role := Role(r.Header.Get("X-User-Role"))
	if id == "" && role == "" {
		return User{Role: RoleAdmin}
	}
	if role != RoleAdmin && role != RoleManager {
		role = RoleRep
	}
	return User{ID: id, Role: role}
}
