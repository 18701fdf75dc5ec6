// Package notify mirrors the server's notification store: wholesale list
// refreshes on a slow timer, unread-count checks on a fast one, optimistic
// read acknowledgements.
package notify

import (
	"context"
	"sync"
	"time"

	"agrimart/internal/metrics"
	"agrimart/internal/model"

	"github.com/rs/zerolog"
)

// API is the slice of the backend client the reconciler needs.
type API interface {
	MyNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	UnreadCount(ctx context.Context) (int, error)
}

// Reconciler holds the local notification view.
type Reconciler struct {
	mu     sync.RWMutex
	list   []model.Notification
	unread int

	api          API
	authed       func() bool
	fastInterval time.Duration
	fullInterval time.Duration
	logger       zerolog.Logger
}

// NewReconciler creates a notification reconciler. authed gates polling:
// both timers idle while it reports false.
func NewReconciler(client API, authed func() bool, fastInterval, fullInterval time.Duration, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		api:          client,
		authed:       authed,
		fastInterval: fastInterval,
		fullInterval: fullInterval,
		logger:       logger.With().Str("component", "notifications").Logger(),
	}
}

// Run polls until the context is cancelled: unread count on the fast timer,
// the full list on the slow one. Both are skipped while logged out; errors
// from background polls are logged, never surfaced.
func (r *Reconciler) Run(ctx context.Context) {
	if r.authed() {
		if err := r.FetchAll(ctx); err != nil {
			r.logger.Warn().Err(err).Msg("initial notification fetch failed")
		}
	}

	fast := time.NewTicker(r.fastInterval)
	full := time.NewTicker(r.fullInterval)
	defer fast.Stop()
	defer full.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-fast.C:
			if !r.authed() {
				continue
			}
			if err := r.RefreshUnread(ctx); err != nil {
				r.logger.Debug().Err(err).Msg("unread count poll failed")
			}
		case <-full.C:
			if !r.authed() {
				continue
			}
			if err := r.FetchAll(ctx); err != nil {
				r.logger.Debug().Err(err).Msg("notification list poll failed")
			}
		}
	}
}

// FetchAll replaces the notification list wholesale and recomputes the
// unread count from the fresh list.
func (r *Reconciler) FetchAll(ctx context.Context) error {
	list, err := r.api.MyNotifications(ctx)
	if err != nil {
		metrics.RecordPollCycle("notifications", false)
		return err
	}

	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}

	r.mu.Lock()
	r.list = list
	r.unread = unread
	r.mu.Unlock()

	metrics.RecordPollCycle("notifications", true)
	r.logger.Debug().Int("count", len(list)).Int("unread", unread).Msg("notifications refreshed")
	return nil
}

// RefreshUnread updates only the unread counter from the lightweight
// endpoint.
func (r *Reconciler) RefreshUnread(ctx context.Context) error {
	count, err := r.api.UnreadCount(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.unread = count
	r.mu.Unlock()
	return nil
}

// MarkRead flips the local read flag and decrements the unread counter
// before asking the server to acknowledge. Already-read entries are a
// no-op, so repeated calls cannot drive the counter below zero. The local
// flip is not rolled back if the server call fails.
func (r *Reconciler) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	flipped := false
	for i := range r.list {
		if r.list[i].ID == id && !r.list[i].Read {
			r.list[i].Read = true
			flipped = true
			break
		}
	}
	if flipped && r.unread > 0 {
		r.unread--
	}
	r.mu.Unlock()

	if !flipped {
		return nil
	}

	if err := r.api.MarkNotificationRead(ctx, id); err != nil {
		r.logger.Warn().Err(err).Str("notification_id", id).Msg("read acknowledgment failed")
		return err
	}
	return nil
}

// MarkAllRead flips every local flag and zeroes the counter, then
// acknowledges server-side.
func (r *Reconciler) MarkAllRead(ctx context.Context) error {
	r.mu.Lock()
	for i := range r.list {
		r.list[i].Read = true
	}
	r.unread = 0
	r.mu.Unlock()

	if err := r.api.MarkAllNotificationsRead(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("read-all acknowledgment failed")
		return err
	}
	return nil
}

// Reset clears all local notification state. Called immediately on logout.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	r.list = nil
	r.unread = 0
	r.mu.Unlock()
	r.logger.Debug().Msg("notification state reset")
}

// Notifications returns a copy of the current list.
func (r *Reconciler) Notifications() []model.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Notification, len(r.list))
	copy(out, r.list)
	return out
}

// UnreadCount returns the current unread total.
func (r *Reconciler) UnreadCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.unread
}
