package rbac

import (
	"errors"
	"fmt"
)

// ErrPermissionDenied is returned when the capability matrix denies an
// action. The UI hides denied controls, so hitting this is a backstop,
// not the normal path.
var ErrPermissionDenied = errors.New("permission denied")

type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// ParseRole maps a claim string onto a known role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleViewer, RoleEditor, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type Action string

const (
	ActionReadInventory Action = "inventory:read"

	ActionCreateItem Action = "items:create"
	ActionUpdateItem Action = "items:update"
	ActionDeleteItem Action = "items:delete"

	ActionCreateQuote Action = "supplier-products:create"
	ActionUpdateQuote Action = "supplier-products:update"
	ActionDeleteQuote Action = "supplier-products:delete"

	ActionCreateBatch Action = "batches:create"
	ActionUpdateBatch Action = "batches:update"
	ActionDeleteBatch Action = "batches:delete"

	ActionCreateAdjustment Action = "adjustments:create"
	ActionAssignLocation   Action = "item-locations:assign"

	ActionCreateLocation Action = "locations:create"
	ActionUpdateLocation Action = "locations:update"
	ActionDeleteLocation Action = "locations:delete"

	ActionManageUsers Action = "users:manage"
)

// Class groups actions into the four columns of the capability matrix.
type Class int

const (
	ClassRead Class = iota
	ClassWrite
	ClassDelete
	ClassManage
)

// ClassOf buckets an action. Unknown actions fall into ClassManage so
// that anything unrecognized is admin-only rather than silently open.
func ClassOf(action Action) Class {
	switch action {
	case ActionReadInventory:
		return ClassRead
	case ActionCreateItem, ActionUpdateItem,
		ActionCreateQuote, ActionUpdateQuote,
		ActionCreateBatch, ActionUpdateBatch,
		ActionCreateAdjustment, ActionAssignLocation:
		return ClassWrite
	case ActionDeleteItem, ActionDeleteQuote, ActionDeleteBatch:
		return ClassDelete
	case ActionCreateLocation, ActionUpdateLocation, ActionDeleteLocation, ActionManageUsers:
		return ClassManage
	}
	return ClassManage
}

// Allows is the capability matrix. It is the only place role checks live;
// both handler-level gating and the mutation gateway call it.
func Allows(role Role, action Action) bool {
	switch ClassOf(action) {
	case ClassRead:
		return role == RoleViewer || role == RoleEditor || role == RoleAdmin
	case ClassWrite:
		return role == RoleEditor || role == RoleAdmin
	case ClassDelete, ClassManage:
		return role == RoleAdmin
	}
	return false
}

// Actions lists every action in the matrix, for exhaustive checks.
func Actions() []Action {
	return []Action{
		ActionReadInventory,
		ActionCreateItem, ActionUpdateItem, ActionDeleteItem,
		ActionCreateQuote, ActionUpdateQuote, ActionDeleteQuote,
		ActionCreateBatch, ActionUpdateBatch, ActionDeleteBatch,
		ActionCreateAdjustment, ActionAssignLocation,
		ActionCreateLocation, ActionUpdateLocation, ActionDeleteLocation,
		ActionManageUsers,
	}
}
