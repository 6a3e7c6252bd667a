package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"

	"stocklens/internal/idempotency"
	"stocklens/internal/rbac"
	"stocklens/internal/session"
)

// ErrDuplicateSubmission is returned when an idempotency key is replayed
// while its action is in flight or within the replay window.
var ErrDuplicateSubmission = errors.New("duplicate submission")

// QuoteInvalidator is the cache surface the gateway busts after writes.
type QuoteInvalidator interface {
	Bust(itemName string)
	BustAll()
}

// CatalogRefresher refetches the item list after a successful mutation.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// Mutation is one gated write against the upstream API.
type Mutation struct {
	Action rbac.Action

	// ItemName names the item whose quote entry the action can affect.
	// Empty when the action touches nothing item-specific (locations).
	ItemName string

	// PreviousItemName names the item a quote pointed at before the
	// mutation re-linked it elsewhere. Busted alongside ItemName so the
	// old item's cached quote set cannot keep the moved quote.
	PreviousItemName string

	// Key is the idempotency key for the triggering user action. Empty
	// skips the double-submission guard.
	Key string

	Call func(ctx context.Context) error
}

// PairResult reports the outcome of a two-step action whose second step
// failed after the first succeeded. There is no rollback; the upstream
// has no transactions to lean on.
type PairResult struct {
	PrimaryDone  bool
	SecondaryErr error
}

// Gateway wraps every create/update/delete with the capability check, the
// double-submission guard and post-mutation invalidation.
type Gateway struct {
	cache   QuoteInvalidator
	catalog CatalogRefresher
	idem    idempotency.Store
}

func New(cache QuoteInvalidator, catalog CatalogRefresher, idem idempotency.Store) *Gateway {
	return &Gateway{cache: cache, catalog: catalog, idem: idem}
}

// Execute runs one mutation. Capability denial fails before any network
// call; so does a replayed idempotency key. On success the affected quote
// entry is busted and the catalog refetched.
func (g *Gateway) Execute(ctx context.Context, id session.Identity, m Mutation) error {
	if !rbac.Allows(id.Role, m.Action) {
		return fmt.Errorf("%s: %w", m.Action, rbac.ErrPermissionDenied)
	}

	if m.Key != "" {
		ok, err := g.idem.Claim(ctx, m.Key)
		if err != nil {
			return fmt.Errorf("idempotency check for %s: %w", m.Action, err)
		}
		if !ok {
			return fmt.Errorf("%s: %w", m.Action, ErrDuplicateSubmission)
		}
	}

	if err := m.Call(ctx); err != nil {
		return err
	}

	g.invalidate(ctx, m)
	return nil
}

// ExecutePair runs a primary mutation and, only if it succeeds, a
// secondary one. A failed secondary does not roll the primary back; the
// result keeps the two outcomes apart. The returned error is non-nil only
// when the primary path failed.
func (g *Gateway) ExecutePair(ctx context.Context, id session.Identity, primary, secondary Mutation) (PairResult, error) {
	if err := g.Execute(ctx, id, primary); err != nil {
		return PairResult{}, err
	}
	if err := g.Execute(ctx, id, secondary); err != nil {
		return PairResult{PrimaryDone: true, SecondaryErr: err}, nil
	}
	return PairResult{PrimaryDone: true}, nil
}

// affectsQuotes reports whether an action can change an item's quote set.
// Deleting an item orphans its quotes, so it counts too.
func affectsQuotes(action rbac.Action) bool {
	switch action {
	case rbac.ActionCreateQuote, rbac.ActionUpdateQuote, rbac.ActionDeleteQuote, rbac.ActionDeleteItem:
		return true
	}
	return false
}

// invalidate applies the coarse post-write discipline: bust the affected
// quote entry wholesale, then refetch the catalog rather than patching it.
// A failed refetch keeps the last-known-good catalog and is only logged;
// the mutation itself already succeeded.
func (g *Gateway) invalidate(ctx context.Context, m Mutation) {
	if affectsQuotes(m.Action) {
		if m.ItemName != "" {
			g.cache.Bust(m.ItemName)
		}
		if m.PreviousItemName != "" && m.PreviousItemName != m.ItemName {
			g.cache.Bust(m.PreviousItemName)
		}
	}
	if err := g.catalog.Refresh(ctx); err != nil {
		log.Printf("Failed to refresh catalog after %s: %v", m.Action, err)
	}
}
