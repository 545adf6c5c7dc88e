package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailpilot/console/internal/models"
	"github.com/mailpilot/console/internal/state"
)

// fixedPolicy enables exactly the listed kinds
type fixedPolicy map[string]bool

func (p fixedPolicy) TriggerEnabled(kind string) bool { return p[kind] }

func logPush(t *testing.T, store *state.Store, message, notificationType string) {
	t.Helper()
	env, err := models.NewEnvelope(models.TypeLog, models.ActivityEntry{Message: message})
	require.NoError(t, err)
	env.NotificationType = notificationType
	store.Apply(context.Background(), env)
}

func TestNotifier_SurfacesEnabledKinds(t *testing.T) {
	store := state.NewStore(nil)
	notifier := NewNotifierService(fixedPolicy{models.NotifyNewDraft: true})
	notifier.WatchStore(store)

	var got []Notification
	notifier.OnNotification(func(n Notification) { got = append(got, n) })

	logPush(t, store, "drafted a reply", models.NotifyNewDraft)

	require.Len(t, got, 1)
	assert.Equal(t, NotifyInfo, got[0].Level)
	assert.Equal(t, models.NotifyNewDraft, got[0].Kind)
	assert.Equal(t, "drafted a reply", got[0].Message)
}

func TestNotifier_SuppressesDisabledKinds(t *testing.T) {
	store := state.NewStore(nil)
	notifier := NewNotifierService(fixedPolicy{models.NotifyNewDraft: false})
	notifier.WatchStore(store)

	var got []Notification
	notifier.OnNotification(func(n Notification) { got = append(got, n) })

	logPush(t, store, "drafted a reply", models.NotifyNewDraft)
	assert.Empty(t, got)
}

func TestNotifier_IgnoresPlainLogEntries(t *testing.T) {
	store := state.NewStore(nil)
	notifier := NewNotifierService(nil)
	notifier.WatchStore(store)

	var got []Notification
	notifier.OnNotification(func(n Notification) { got = append(got, n) })

	// A log push without a notification kind never surfaces an alert,
	// and non-activity changes are ignored entirely
	logPush(t, store, "routine check", "")
	env, err := models.NewEnvelope(models.TypeStatusUpdate, models.StatusPayload{AgentStatus: models.StatusIdle})
	require.NoError(t, err)
	store.Apply(context.Background(), env)

	assert.Empty(t, got)
}

func TestNotifier_NilPolicySurfacesEverything(t *testing.T) {
	store := state.NewStore(nil)
	notifier := NewNotifierService(nil)
	notifier.WatchStore(store)

	var got []Notification
	notifier.OnNotification(func(n Notification) { got = append(got, n) })

	logPush(t, store, "new priority email", models.NotifyPriorityItem)
	assert.Len(t, got, 1)
}

func TestNotifier_DirectNotify(t *testing.T) {
	notifier := NewNotifierService(nil)
	var got []Notification
	notifier.OnNotification(func(n Notification) { got = append(got, n) })

	notifier.Notify(Notification{Level: NotifySuccess, Message: "Sent 3 item(s)"})
	require.Len(t, got, 1)
	assert.Equal(t, NotifySuccess, got[0].Level)
}
