package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"agrimart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAPI is a mock implementation of the reconciler's backend slice.
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) MyNotifications(ctx context.Context) ([]model.Notification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockAPI) MarkNotificationRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAPI) MarkAllNotificationsRead(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAPI) UnreadCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func alwaysAuthed() bool { return true }

func testNotifications() []model.Notification {
	return []model.Notification{
		{ID: "N1", Type: model.NotificationOrderStatus, Read: false},
		{ID: "N2", Type: model.NotificationInvestmentUpdate, Read: true},
		{ID: "N3", Type: model.NotificationGeneric, Read: false},
	}
}

func newTestReconciler(client API) *Reconciler {
	return NewReconciler(client, alwaysAuthed, time.Minute, time.Minute, zerolog.Nop())
}

func TestReconciler_FetchAll(t *testing.T) {
	client := new(MockAPI)
	client.On("MyNotifications", mock.Anything).Return(testNotifications(), nil)

	r := newTestReconciler(client)
	require.NoError(t, r.FetchAll(context.Background()))

	assert.Len(t, r.Notifications(), 3)
	assert.Equal(t, 2, r.UnreadCount())
}

func TestReconciler_FetchAll_ReplacesWholesale(t *testing.T) {
	client := new(MockAPI)
	client.On("MyNotifications", mock.Anything).Return(testNotifications(), nil).Once()

	r := newTestReconciler(client)
	require.NoError(t, r.FetchAll(context.Background()))

	client.On("MyNotifications", mock.Anything).
		Return([]model.Notification{{ID: "N9", Read: false}}, nil)

	require.NoError(t, r.FetchAll(context.Background()))
	list := r.Notifications()
	require.Len(t, list, 1)
	assert.Equal(t, "N9", list[0].ID)
	assert.Equal(t, 1, r.UnreadCount())
}

func TestReconciler_MarkRead(t *testing.T) {
	client := new(MockAPI)
	client.On("MyNotifications", mock.Anything).Return(testNotifications(), nil)
	client.On("MarkNotificationRead", mock.Anything, "N1").Return(nil).Once()

	r := newTestReconciler(client)
	require.NoError(t, r.FetchAll(context.Background()))

	require.NoError(t, r.MarkRead(context.Background(), "N1"))
	assert.Equal(t, 1, r.UnreadCount())

	// Idempotent: a second call is a local no-op and never drops the
	// counter below what is actually unread.
	require.NoError(t, r.MarkRead(context.Background(), "N1"))
	assert.Equal(t, 1, r.UnreadCount())

	client.AssertNumberOfCalls(t, "MarkNotificationRead", 1)
}

func TestReconciler_MarkRead_CounterNeverNegative(t *testing.T) {
	client := new(MockAPI)
	client.On("MyNotifications", mock.Anything).
		Return([]model.Notification{{ID: "N1", Read: false}}, nil)
	client.On("MarkNotificationRead", mock.Anything, mock.Anything).Return(nil)

	r := newTestReconciler(client)
	require.NoError(t, r.FetchAll(context.Background()))

	for i := 0; i < 5; i++ {
		require.NoError(t, r.MarkRead(context.Background(), "N1"))
	}
	assert.Equal(t, 0, r.UnreadCount())
}

func TestReconciler_MarkRead_NoRollbackOnServerFailure(t *testing.T) {
	client := new(MockAPI)
	client.On("MyNotifications", mock.Anything).Return(testNotifications(), nil)
	client.On("MarkNotificationRead", mock.Anything, "N1").Return(errors.New("boom"))

	r := newTestReconciler(client)
	require.NoError(t, r.FetchAll(context.Background()))

	err := r.MarkRead(context.Background(), "N1")
	require.Error(t, err)

	// The optimistic flip stays even though the server rejected it.
	assert.Equal(t, 1, r.UnreadCount())
	for _, n := range r.Notifications() {
		if n.ID == "N1" {
			assert.True(t, n.Read)
		}
	}
}

func TestReconciler_MarkAllRead(t *testing.T) {
	client := new(MockAPI)
	client.On("MyNotifications", mock.Anything).Return(testNotifications(), nil)
	client.On("MarkAllNotificationsRead", mock.Anything).Return(nil)

	r := newTestReconciler(client)
	require.NoError(t, r.FetchAll(context.Background()))

	require.NoError(t, r.MarkAllRead(context.Background()))

	assert.Equal(t, 0, r.UnreadCount())
	for _, n := range r.Notifications() {
		assert.True(t, n.Read)
	}
}

func TestReconciler_Reset(t *testing.T) {
	client := new(MockAPI)
	client.On("MyNotifications", mock.Anything).Return([]model.Notification{
		{ID: "N1", Read: false},
		{ID: "N2", Read: false},
		{ID: "N3", Read: false},
	}, nil)

	r := newTestReconciler(client)
	require.NoError(t, r.FetchAll(context.Background()))
	require.Equal(t, 3, r.UnreadCount())

	// Logout: state is cleared immediately, no server round trip.
	r.Reset()

	assert.Empty(t, r.Notifications())
	assert.Equal(t, 0, r.UnreadCount())
}

func TestReconciler_RefreshUnread(t *testing.T) {
	client := new(MockAPI)
	client.On("UnreadCount", mock.Anything).Return(7, nil)

	r := newTestReconciler(client)
	require.NoError(t, r.RefreshUnread(context.Background()))
	assert.Equal(t, 7, r.UnreadCount())
}

func TestNotificationType_Action(t *testing.T) {
	tests := []struct {
		name        string
		typ         model.NotificationType
		expectRoute string
	}{
		{name: "Order status routes to orders", typ: model.NotificationOrderStatus, expectRoute: "orders"},
		{name: "Investment update routes to campaigns", typ: model.NotificationInvestmentUpdate, expectRoute: "campaigns"},
		{name: "Unknown type falls back to generic", typ: model.NotificationType("mystery"), expectRoute: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectRoute, tt.typ.Action().Route)
		})
	}
}
