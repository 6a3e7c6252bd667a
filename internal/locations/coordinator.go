package locations

import (
	"context"

	"github.com/google/uuid"

	"stocklens/internal/gateway"
	"stocklens/internal/rbac"
	"stocklens/internal/session"
)

// Executor is the gateway surface the coordinator delegates to.
type Executor interface {
	Execute(ctx context.Context, id session.Identity, m gateway.Mutation) error
}

// Assigner links an item to a location on the upstream API.
type Assigner interface {
	AssignItemLocation(ctx context.Context, itemName string, locationID *uuid.UUID, quantity int) error
}

// Coordinator handles item-to-location assignment. It is a thin
// specialization of the mutation gateway: the gateway gates the call and
// refetches the catalog on success, so server-computed fields come back
// consistent instead of being patched locally.
//
// Concurrent assigns for different items run independently. Concurrent
// assigns for the same item are NOT serialized here: the last response to
// arrive wins, regardless of request order. Known race, pinned by a test;
// per-item queuing is a follow-up decision.
type Coordinator struct {
	executor Executor
	api      Assigner
}

func NewCoordinator(executor Executor, api Assigner) *Coordinator {
	return &Coordinator{executor: executor, api: api}
}

// Assign links itemName to locationID, or clears the link when locationID
// is nil. key is the idempotency key for the triggering user action.
func (c *Coordinator) Assign(ctx context.Context, id session.Identity, itemName string, locationID *uuid.UUID, quantity int, key string) error {
	return c.executor.Execute(ctx, id, gateway.Mutation{
		Action:   rbac.ActionAssignLocation,
		ItemName: itemName,
		Key:      key,
		Call: func(ctx context.Context) error {
			return c.api.AssignItemLocation(ctx, itemName, locationID, quantity)
		},
	})
}
