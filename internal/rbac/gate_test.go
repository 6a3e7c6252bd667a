package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllows_CapabilityMatrix(t *testing.T) {
	tests := []struct {
		role    Role
		action  Action
		allowed bool
	}{
		{RoleViewer, ActionReadInventory, true},
		{RoleViewer, ActionCreateItem, false},
		{RoleViewer, ActionUpdateQuote, false},
		{RoleViewer, ActionCreateAdjustment, false},
		{RoleViewer, ActionAssignLocation, false},
		{RoleViewer, ActionCreateLocation, false},

		{RoleEditor, ActionReadInventory, true},
		{RoleEditor, ActionCreateItem, true},
		{RoleEditor, ActionUpdateItem, true},
		{RoleEditor, ActionCreateQuote, true},
		{RoleEditor, ActionCreateAdjustment, true},
		{RoleEditor, ActionAssignLocation, true},
		{RoleEditor, ActionDeleteItem, false},
		{RoleEditor, ActionDeleteQuote, false},
		{RoleEditor, ActionCreateLocation, false},
		{RoleEditor, ActionManageUsers, false},

		{RoleAdmin, ActionDeleteItem, true},
		{RoleAdmin, ActionDeleteQuote, true},
		{RoleAdmin, ActionCreateLocation, true},
		{RoleAdmin, ActionManageUsers, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, Allows(tt.role, tt.action),
			"role %s action %s", tt.role, tt.action)
	}
}

func TestAllows_ViewerDeniedAllDeleteClassActions(t *testing.T) {
	for _, action := range Actions() {
		if ClassOf(action) == ClassDelete {
			assert.False(t, Allows(RoleViewer, action), "viewer must not %s", action)
		}
	}
}

func TestAllows_AdminAllowedEveryAction(t *testing.T) {
	for _, action := range Actions() {
		assert.True(t, Allows(RoleAdmin, action), "admin must be allowed %s", action)
	}
}

func TestAllows_UnknownActionIsAdminOnly(t *testing.T) {
	unknown := Action("reports:generate")
	assert.False(t, Allows(RoleViewer, unknown))
	assert.False(t, Allows(RoleEditor, unknown))
	assert.True(t, Allows(RoleAdmin, unknown))
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"viewer", "editor", "admin"} {
		role, err := ParseRole(valid)
		assert.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}

	_, err := ParseRole("superuser")
	assert.Error(t, err)
}
