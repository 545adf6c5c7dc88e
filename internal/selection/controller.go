// Package selection tracks the set of selected item identifiers scoped to
// the active queue tab, drives bulk operations against the action
// gateway, and reconciles success/failure back into the synchronized
// queue state.
package selection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mailpilot/console/internal/models"
	"github.com/mailpilot/console/internal/services"
	"github.com/mailpilot/console/internal/state"
)

// Tab identifies one action-queue tab
type Tab string

const (
	TabPriority Tab = "priority"
	TabDrafts   Tab = "drafts"
	TabLearning Tab = "learning"
	TabStarred  Tab = "starred"
)

// Queue maps a tab to its underlying queue
func (t Tab) Queue() models.Queue {
	switch t {
	case TabDrafts:
		return models.QueueDrafts
	case TabLearning:
		return models.QueueLearning
	case TabStarred:
		return models.QueueStarred
	default:
		return models.QueuePriority
	}
}

// Services bundles the per-queue action services the controller drives
type Services struct {
	Drafts   services.DraftService
	Priority services.PriorityService
	Learning services.LearningService
	Stars    services.StarService
}

// BulkResult reports the outcome of one bulk operation. Items that failed
// stay in their queue (their optimistic removal was rolled back) and stay
// selected for retry; succeeded items are never rolled back.
type BulkResult struct {
	Requested int
	Succeeded int
	FailedIDs []string
}

// PendingConfirm is a staged destructive bulk action awaiting an explicit
// user confirmation
type PendingConfirm struct {
	Title   string
	Message string
	run     func(ctx context.Context) (*BulkResult, error)
}

// Controller implements the selection set and batch operations for the
// action-queue tabs. All methods are safe for use from the UI goroutine;
// bulk operations block until every gateway call resolved.
type Controller struct {
	store    *state.Store
	svc      Services
	notifier services.Notifier
	pageSize int

	mu        sync.Mutex
	activeTab Tab
	filter    string
	pages     map[Tab]int
	selected  map[string]bool
	pending   *PendingConfirm
}

// NewController creates a selection controller. pageSize is the
// client-side page size for queue tabs.
func NewController(store *state.Store, svc Services, notifier services.Notifier, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Controller{
		store:     store,
		svc:       svc,
		notifier:  notifier,
		pageSize:  pageSize,
		activeTab: TabPriority,
		pages:     make(map[Tab]int),
		selected:  make(map[string]bool),
	}
}

// ActiveTab returns the current tab
func (c *Controller) ActiveTab() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeTab
}

// SetActiveTab switches tabs. The selection set is scoped to exactly one
// queue, so switching always clears it and resets the new tab's page.
func (c *Controller) SetActiveTab(tab Tab) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeTab = tab
	c.selected = make(map[string]bool)
	c.pages[tab] = 0
	c.pending = nil
}

// Filter returns the current search filter
func (c *Controller) Filter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SetFilter changes the search filter, resets the page and drops any
// selected ids the new filter excludes: the selection never references a
// currently-invisible item.
func (c *Controller) SetFilter(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = query
	c.pages[c.activeTab] = 0
	visible := make(map[string]bool)
	for _, item := range c.filteredLocked() {
		visible[item.ID] = true
	}
	for id := range c.selected {
		if !visible[id] {
			delete(c.selected, id)
		}
	}
}

// Items returns the active tab's filtered items in queue order
func (c *Controller) Items() []models.QueueItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filteredLocked()
}

// VisibleItems returns the current page of the filtered items
func (c *Controller) VisibleItems() []models.QueueItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibleLocked()
}

// Page returns the active tab's page index
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageLocked()
}

// TotalPages recomputes page count from the filtered item count
func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return (len(c.filteredLocked()) + c.pageSize - 1) / c.pageSize
}

// NextPage advances the view window one page, clamped to the last page
func (c *Controller) NextPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := (len(c.filteredLocked()) + c.pageSize - 1) / c.pageSize
	if p := c.pageLocked() + 1; p < total {
		c.pages[c.activeTab] = p
	}
}

// PrevPage moves the view window back one page
func (c *Controller) PrevPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p := c.pageLocked(); p > 0 {
		c.pages[c.activeTab] = p - 1
	}
}

// Select adds one filtered item to the selection. Unknown or filtered-out
// ids are ignored.
func (c *Controller) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.filteredLocked() {
		if item.ID == id {
			c.selected[id] = true
			return
		}
	}
}

// Deselect removes one item from the selection
func (c *Controller) Deselect(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.selected, id)
}

// Toggle flips one item's selection state
func (c *Controller) Toggle(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected[id] {
		delete(c.selected, id)
		return
	}
	for _, item := range c.filteredLocked() {
		if item.ID == id {
			c.selected[id] = true
			return
		}
	}
}

// SelectAll selects the currently visible (filtered + paginated) items
// only, never the entire unfiltered queue
func (c *Controller) SelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.visibleLocked() {
		c.selected[item.ID] = true
	}
}

// Clear empties the selection set
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[string]bool)
}

// IsSelected reports whether the id is in the selection set
func (c *Controller) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected[id]
}

// SelectedIDs returns the selected ids in queue order
func (c *Controller) SelectedIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedIDsLocked()
}

// SelectedCount returns the size of the selection set
func (c *Controller) SelectedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.selected)
}

// Reconcile prunes selected ids that are no longer present in the active
// queue (an id leaving its queue must leave the selection). Call it after
// queue-change notifications from the store.
func (c *Controller) Reconcile() {
	c.mu.Lock()
	defer c.mu.Unlock()
	present := make(map[string]bool)
	for _, item := range c.store.Queue(c.activeTab.Queue()) {
		present[item.ID] = true
	}
	for id := range c.selected {
		if !present[id] {
			delete(c.selected, id)
		}
	}
}

// --- bulk operations ---

// BulkKeep acknowledges every selected priority item. Non-destructive:
// runs immediately.
func (c *Controller) BulkKeep(ctx context.Context) (*BulkResult, error) {
	return c.runBulk(ctx, c.SelectedIDs(), c.svc.Priority.Keep, "Kept")
}

// BulkApprove approves every selected learning proposal. Non-destructive:
// runs immediately.
func (c *Controller) BulkApprove(ctx context.Context) (*BulkResult, error) {
	return c.runBulk(ctx, c.SelectedIDs(), c.svc.Learning.Approve, "Approved")
}

// BulkSendDrafts sends every selected draft. Non-destructive (the drafts
// were written for review): runs immediately.
func (c *Controller) BulkSendDrafts(ctx context.Context) (*BulkResult, error) {
	return c.runBulk(ctx, c.SelectedIDs(), c.svc.Drafts.Send, "Sent")
}

// BulkDismiss stages the dismissal of every selected priority item.
// Destructive: requires ConfirmPending before anything is dispatched.
func (c *Controller) BulkDismiss() *PendingConfirm {
	ids := c.SelectedIDs()
	return c.stageConfirm(
		"Dismiss priority items",
		fmt.Sprintf("Dismiss %d selected item(s)? They will leave the priority queue.", len(ids)),
		func(ctx context.Context) (*BulkResult, error) {
			return c.runBulk(ctx, ids, c.svc.Priority.Dismiss, "Dismissed")
		},
	)
}

// BulkReject stages the rejection of every selected learning proposal.
// Destructive: requires ConfirmPending before anything is dispatched.
func (c *Controller) BulkReject() *PendingConfirm {
	ids := c.SelectedIDs()
	return c.stageConfirm(
		"Reject learning proposals",
		fmt.Sprintf("Reject %d selected proposal(s)? The agent will not learn these facts.", len(ids)),
		func(ctx context.Context) (*BulkResult, error) {
			return c.runBulk(ctx, ids, c.svc.Learning.Reject, "Rejected")
		},
	)
}

// BulkDiscardDrafts stages discarding every selected draft. Destructive:
// requires ConfirmPending before anything is dispatched.
func (c *Controller) BulkDiscardDrafts() *PendingConfirm {
	ids := c.SelectedIDs()
	return c.stageConfirm(
		"Discard drafts",
		fmt.Sprintf("Discard %d selected draft(s)? This cannot be undone.", len(ids)),
		func(ctx context.Context) (*BulkResult, error) {
			return c.runBulk(ctx, ids, c.svc.Drafts.Discard, "Discarded")
		},
	)
}

// BulkUnstar unstars every selected email through the batch endpoint: one
// gateway call for the whole set, so it either confirms or rolls back all
// of them together.
func (c *Controller) BulkUnstar(ctx context.Context) (*BulkResult, error) {
	ids := c.SelectedIDs()
	result := &BulkResult{Requested: len(ids)}
	if len(ids) == 0 {
		return result, nil
	}
	if err := c.svc.Stars.BulkUnstar(ctx, ids); err != nil {
		result.FailedIDs = ids
		c.notifyError(err)
		return result, err
	}
	result.Succeeded = len(ids)
	c.deselect(ids)
	c.notifySuccess("Unstarred", len(ids))
	return result, nil
}

// Pending returns the staged destructive action, if any
func (c *Controller) Pending() *PendingConfirm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// ConfirmPending dispatches the staged destructive action
func (c *Controller) ConfirmPending(ctx context.Context) (*BulkResult, error) {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()
	if pending == nil {
		return nil, fmt.Errorf("no pending confirmation")
	}
	return pending.run(ctx)
}

// CancelPending drops the staged destructive action without dispatching
func (c *Controller) CancelPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
}

// runBulk invokes op once per id. Partial failure never rolls back items
// that already succeeded server-side; failed items keep their queue entry
// (the per-item optimistic removal was rolled back by the service) and
// stay selected for retry.
func (c *Controller) runBulk(ctx context.Context, ids []string, op func(context.Context, string) error, verb string) (*BulkResult, error) {
	result := &BulkResult{Requested: len(ids)}
	if len(ids) == 0 {
		return result, nil
	}

	var errs []error
	var succeeded []string
	for _, id := range ids {
		if err := op(ctx, id); err != nil {
			result.FailedIDs = append(result.FailedIDs, id)
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
			continue
		}
		result.Succeeded++
		succeeded = append(succeeded, id)
	}

	c.deselect(succeeded)

	if len(errs) > 0 {
		err := errors.Join(errs...)
		c.notifyError(err)
		return result, err
	}
	c.notifySuccess(verb, result.Succeeded)
	return result, nil
}

// --- internals ---

func (c *Controller) stageConfirm(title, message string, run func(ctx context.Context) (*BulkResult, error)) *PendingConfirm {
	pending := &PendingConfirm{Title: title, Message: message, run: run}
	c.mu.Lock()
	c.pending = pending
	c.mu.Unlock()
	return pending
}

func (c *Controller) deselect(ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.selected, id)
	}
}

func (c *Controller) notifySuccess(verb string, count int) {
	if c.notifier == nil || count == 0 {
		return
	}
	c.notifier.Notify(services.Notification{
		Level:   services.NotifySuccess,
		Message: fmt.Sprintf("%s %d item(s)", verb, count),
	})
}

func (c *Controller) notifyError(err error) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(services.Notification{
		Level:   services.NotifyError,
		Message: err.Error(),
	})
}

func (c *Controller) pageLocked() int {
	return c.pages[c.activeTab]
}

func (c *Controller) filteredLocked() []models.QueueItem {
	items := c.store.Queue(c.activeTab.Queue())
	if strings.TrimSpace(c.filter) == "" {
		return items
	}
	query := strings.ToLower(c.filter)
	filtered := make([]models.QueueItem, 0, len(items))
	for _, item := range items {
		if matchesFilter(item, query) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func (c *Controller) visibleLocked() []models.QueueItem {
	items := c.filteredLocked()
	if len(items) == 0 {
		c.pages[c.activeTab] = 0
		return []models.QueueItem{}
	}
	// A shrinking queue can strand the page index past the end; snap back
	// to the last populated page
	if last := (len(items) - 1) / c.pageSize; c.pageLocked() > last {
		c.pages[c.activeTab] = last
	}
	start := c.pageLocked() * c.pageSize
	end := start + c.pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (c *Controller) selectedIDsLocked() []string {
	ids := make([]string, 0, len(c.selected))
	for _, item := range c.filteredLocked() {
		if c.selected[item.ID] {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func matchesFilter(item models.QueueItem, query string) bool {
	for _, field := range []string{item.Subject, item.From, item.FromEmail, item.Summary, item.Snippet, item.Fact} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
