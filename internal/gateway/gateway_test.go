package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"stocklens/internal/idempotency"
	"stocklens/internal/rbac"
	"stocklens/internal/session"
)

type MockQuoteInvalidator struct {
	mock.Mock
}

func (m *MockQuoteInvalidator) Bust(itemName string) {
	m.Called(itemName)
}

func (m *MockQuoteInvalidator) BustAll() {
	m.Called()
}

type MockCatalogRefresher struct {
	mock.Mock
}

func (m *MockCatalogRefresher) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type GatewayTestSuite struct {
	suite.Suite
	cache   *MockQuoteInvalidator
	catalog *MockCatalogRefresher
	gw      *Gateway

	editor session.Identity
	viewer session.Identity
	admin  session.Identity
}

func (s *GatewayTestSuite) SetupTest() {
	s.cache = new(MockQuoteInvalidator)
	s.catalog = new(MockCatalogRefresher)
	s.gw = New(s.cache, s.catalog, idempotency.NewMemoryStore(time.Minute))

	s.editor = session.Identity{UserID: uuid.New(), Role: rbac.RoleEditor}
	s.viewer = session.Identity{UserID: uuid.New(), Role: rbac.RoleViewer}
	s.admin = session.Identity{UserID: uuid.New(), Role: rbac.RoleAdmin}
}

func (s *GatewayTestSuite) TestDeniedActionNeverReachesNetwork() {
	called := false
	err := s.gw.Execute(context.Background(), s.viewer, Mutation{
		Action:   rbac.ActionCreateItem,
		ItemName: "Widget",
		Call: func(ctx context.Context) error {
			called = true
			return nil
		},
	})

	s.ErrorIs(err, rbac.ErrPermissionDenied)
	s.False(called, "a denied mutation must not issue any call")
	s.cache.AssertNotCalled(s.T(), "Bust", mock.Anything)
	s.catalog.AssertNotCalled(s.T(), "Refresh", mock.Anything)
}

func (s *GatewayTestSuite) TestQuoteMutationBustsItemAndRefetchesCatalog() {
	s.cache.On("Bust", "Widget").Return()
	s.catalog.On("Refresh", mock.Anything).Return(nil)

	err := s.gw.Execute(context.Background(), s.editor, Mutation{
		Action:   rbac.ActionCreateQuote,
		ItemName: "Widget",
		Call:     func(ctx context.Context) error { return nil },
	})

	s.NoError(err)
	s.cache.AssertCalled(s.T(), "Bust", "Widget")
	s.catalog.AssertCalled(s.T(), "Refresh", mock.Anything)
}

func (s *GatewayTestSuite) TestItemDeleteBustsItsQuoteEntry() {
	s.cache.On("Bust", "Widget").Return()
	s.catalog.On("Refresh", mock.Anything).Return(nil)

	err := s.gw.Execute(context.Background(), s.admin, Mutation{
		Action:   rbac.ActionDeleteItem,
		ItemName: "Widget",
		Call:     func(ctx context.Context) error { return nil },
	})

	s.NoError(err)
	s.cache.AssertCalled(s.T(), "Bust", "Widget")
}

func (s *GatewayTestSuite) TestRelinkedQuoteBustsOldAndNewItems() {
	s.cache.On("Bust", "Gadget").Return()
	s.cache.On("Bust", "Widget").Return()
	s.catalog.On("Refresh", mock.Anything).Return(nil)

	err := s.gw.Execute(context.Background(), s.editor, Mutation{
		Action:           rbac.ActionUpdateQuote,
		ItemName:         "Gadget",
		PreviousItemName: "Widget",
		Call:             func(ctx context.Context) error { return nil },
	})

	s.NoError(err)
	s.cache.AssertCalled(s.T(), "Bust", "Gadget")
	s.cache.AssertCalled(s.T(), "Bust", "Widget")
}

func (s *GatewayTestSuite) TestUnchangedPreviousItemBustsOnce() {
	s.cache.On("Bust", "Widget").Return()
	s.catalog.On("Refresh", mock.Anything).Return(nil)

	err := s.gw.Execute(context.Background(), s.editor, Mutation{
		Action:           rbac.ActionUpdateQuote,
		ItemName:         "Widget",
		PreviousItemName: "Widget",
		Call:             func(ctx context.Context) error { return nil },
	})

	s.NoError(err)
	s.cache.AssertNumberOfCalls(s.T(), "Bust", 1)
}

func (s *GatewayTestSuite) TestLocationMutationInvalidatesNothingItemSpecific() {
	s.catalog.On("Refresh", mock.Anything).Return(nil)

	err := s.gw.Execute(context.Background(), s.admin, Mutation{
		Action: rbac.ActionCreateLocation,
		Call:   func(ctx context.Context) error { return nil },
	})

	s.NoError(err)
	s.cache.AssertNotCalled(s.T(), "Bust", mock.Anything)
	s.catalog.AssertCalled(s.T(), "Refresh", mock.Anything)
}

func (s *GatewayTestSuite) TestFailedMutationSkipsInvalidation() {
	callErr := errors.New("upstream rejected it")

	err := s.gw.Execute(context.Background(), s.editor, Mutation{
		Action:   rbac.ActionUpdateItem,
		ItemName: "Widget",
		Call:     func(ctx context.Context) error { return callErr },
	})

	s.ErrorIs(err, callErr)
	s.cache.AssertNotCalled(s.T(), "Bust", mock.Anything)
	s.catalog.AssertNotCalled(s.T(), "Refresh", mock.Anything)
}

func (s *GatewayTestSuite) TestFailedCatalogRefetchDoesNotFailTheMutation() {
	s.catalog.On("Refresh", mock.Anything).Return(errors.New("refetch failed"))

	err := s.gw.Execute(context.Background(), s.editor, Mutation{
		Action: rbac.ActionCreateItem,
		Call:   func(ctx context.Context) error { return nil },
	})

	s.NoError(err)
}

func (s *GatewayTestSuite) TestDuplicateSubmissionRejectedBeforeNetwork() {
	s.catalog.On("Refresh", mock.Anything).Return(nil)

	calls := 0
	m := Mutation{
		Action: rbac.ActionCreateItem,
		Key:    "double-click",
		Call: func(ctx context.Context) error {
			calls++
			return nil
		},
	}

	s.NoError(s.gw.Execute(context.Background(), s.editor, m))

	err := s.gw.Execute(context.Background(), s.editor, m)
	s.ErrorIs(err, ErrDuplicateSubmission)
	s.Equal(1, calls)
}

func (s *GatewayTestSuite) TestExecutePair_FullSuccess() {
	s.cache.On("Bust", "Widget").Return()
	s.catalog.On("Refresh", mock.Anything).Return(nil)

	result, err := s.gw.ExecutePair(context.Background(), s.editor,
		Mutation{
			Action: rbac.ActionCreateItem,
			Call:   func(ctx context.Context) error { return nil },
		},
		Mutation{
			Action:   rbac.ActionCreateQuote,
			ItemName: "Widget",
			Call:     func(ctx context.Context) error { return nil },
		},
	)

	s.NoError(err)
	s.True(result.PrimaryDone)
	s.NoError(result.SecondaryErr)
}

func (s *GatewayTestSuite) TestExecutePair_SecondaryFailureIsDistinguished() {
	s.catalog.On("Refresh", mock.Anything).Return(nil)
	quoteErr := errors.New("attach quote failed")

	result, err := s.gw.ExecutePair(context.Background(), s.editor,
		Mutation{
			Action: rbac.ActionCreateItem,
			Call:   func(ctx context.Context) error { return nil },
		},
		Mutation{
			Action:   rbac.ActionCreateQuote,
			ItemName: "Widget",
			Call:     func(ctx context.Context) error { return quoteErr },
		},
	)

	// No rollback: the item stays created, the quote failure is reported
	// separately, not as one opaque error.
	s.NoError(err)
	s.True(result.PrimaryDone)
	s.ErrorIs(result.SecondaryErr, quoteErr)
}

func (s *GatewayTestSuite) TestExecutePair_PrimaryFailureStopsThere() {
	itemErr := errors.New("create item failed")
	secondaryCalled := false

	result, err := s.gw.ExecutePair(context.Background(), s.editor,
		Mutation{
			Action: rbac.ActionCreateItem,
			Call:   func(ctx context.Context) error { return itemErr },
		},
		Mutation{
			Action: rbac.ActionCreateQuote,
			Call: func(ctx context.Context) error {
				secondaryCalled = true
				return nil
			},
		},
	)

	s.ErrorIs(err, itemErr)
	s.False(result.PrimaryDone)
	s.False(secondaryCalled)
}

func TestGatewayTestSuite(t *testing.T) {
	suite.Run(t, new(GatewayTestSuite))
}

func TestAffectsQuotes(t *testing.T) {
	assert.True(t, affectsQuotes(rbac.ActionCreateQuote))
	assert.True(t, affectsQuotes(rbac.ActionUpdateQuote))
	assert.True(t, affectsQuotes(rbac.ActionDeleteQuote))
	assert.True(t, affectsQuotes(rbac.ActionDeleteItem))
	assert.False(t, affectsQuotes(rbac.ActionCreateItem))
	assert.False(t, affectsQuotes(rbac.ActionAssignLocation))
	assert.False(t, affectsQuotes(rbac.ActionCreateLocation))
}
