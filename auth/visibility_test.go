// ABOUTME: Tests for role-based visibility mapping
// ABOUTME: Covers role widening rules and request header parsing
package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibilityForRoles(t *testing.T) {
	assert.True(t, VisibilityFor(User{ID: "a", Role: RoleAdmin}, ActionViewReports).All())
	assert.True(t, VisibilityFor(User{ID: "m", Role: RoleManager}, ActionViewReports).All())

	vis := VisibilityFor(User{ID: "r", Role: RoleRep}, ActionViewDashboard)
	assert.False(t, vis.All())
	assert.Equal(t, "r", vis.OwnerID)

	// unknown roles never widen
	unknown := VisibilityFor(User{ID: "x", Role: Role("superuser")}, ActionViewReports)
	assert.Equal(t, "x", unknown.OwnerID)
}

func TestUserFromRequest(t *testing.T) {
	// bare request is a local admin session
	req := httptest.NewRequest("GET", "/api/report", nil)
	assert.Equal(t, User{Role: RoleAdmin}, UserFromRequest(req))

	req = httptest.NewRequest("GET", "/api/report", nil)
	req.Header.Set("X-User-ID", "bob")
	req.Header.Set("X-User-Role", "rep")
	assert.Equal(t, User{ID: "bob", Role: RoleRep}, UserFromRequest(req))

	// unrecognized roles downgrade to rep
	req = httptest.NewRequest("GET", "/api/report", nil)
	req.Header.Set("X-User-ID", "eve")
	req.Header.Set("X-User-Role", "root")
	assert.Equal(t, User{ID: "eve", Role: RoleRep}, UserFromRequest(req))

	req = httptest.NewRequest("GET", "/api/report", nil)
	req.Header.Set("X-User-ID", "m")
	req.Header.Set("X-User-Role", "manager")
	assert.Equal(t, User{ID: "m", Role: RoleManager}, UserFromRequest(req))
}
