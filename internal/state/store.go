// Package state owns the canonical, synchronized copy of everything the
// dashboard renders: the four action queues, chat history, activity feed
// and agent status. It is a reducer over push envelopes from the live
// channel plus locally originated optimistic mutations; the server always
// wins on a full replace.
package state

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/mailpilot/console/internal/models"
)

// Snapshot keys used with the cache port. They match the backend's own
// state document keys.
const (
	KeyActivityFeed  = "activity_feed"
	KeyDraftsQueue   = "drafts_queue"
	KeyLearningQueue = "learning_queue"
	KeyPriorityQueue = "priority_queue"
	KeyStarredQueue  = "starred_queue"
	KeyChatHistory   = "chat_history"
	KeyAgentStatus   = "agent_status"
)

// CachePort is the persistent mirror the store writes through to. It is
// injected rather than accessed ambiently; a nil port disables mirroring.
type CachePort interface {
	Save(ctx context.Context, key, value string) error
	Load(ctx context.Context, key string) (string, bool, error)
}

// ChangeKind classifies a store change for watchers
type ChangeKind int

const (
	ChangeQueue ChangeKind = iota
	ChangeChat
	ChangeActivity
	ChangeStatus
	ChangeSmartReplies
	ChangeFacts
	ChangeAll
)

// Change describes one applied mutation. For ChangeActivity the entry and
// its notification kind (when the push carried one) are included so a
// notifier can decide whether to surface an alert.
type Change struct {
	Kind             ChangeKind
	Queue            models.Queue
	Entry            *models.ActivityEntry
	NotificationType string
}

// pendingMutation captures the prior state of one optimistic change so it
// can be rolled back if the gateway call fails
type pendingMutation struct {
	queue      models.Queue
	id         string
	removed    bool
	prior      models.QueueItem
	priorIndex int
}

// Store is the synchronized queue state. All mutation goes through Apply
// (push envelopes, applied in arrival order by the channel's single
// reader) or the optimistic two-phase API used by the batch controller.
type Store struct {
	mu sync.RWMutex

	status       models.AgentStatus
	lastChecked  string
	activity     []models.ActivityEntry
	chat         []models.ChatMessage
	queues       map[models.Queue][]models.QueueItem
	smartReplies models.SmartReplyPayload
	facts        []models.Fact

	pending map[string]*pendingMutation

	handlers map[string]func(ctx context.Context, payload json.RawMessage, notificationType string)

	cache    CachePort
	watchers []func(Change)
	logger   *log.Logger // Optional - for debug logging
}

// NewStore creates a store. cache may be nil to disable the persistent
// mirror.
func NewStore(cache CachePort) *Store {
	s := &Store{
		status: models.StatusDisconnected,
		queues: map[models.Queue][]models.QueueItem{
			models.QueuePriority: {},
			models.QueueDrafts:   {},
			models.QueueLearning: {},
			models.QueueStarred:  {},
		},
		activity: []models.ActivityEntry{},
		chat:     []models.ChatMessage{},
		pending:  make(map[string]*pendingMutation),
		cache:    cache,
	}
	s.handlers = map[string]func(ctx context.Context, payload json.RawMessage, notificationType string){
		models.TypeInitialState:       s.applyInitialState,
		models.TypeStarredUpdate:      s.queueReplacer(models.QueueStarred, KeyStarredQueue),
		models.TypeDraftsUpdate:       s.queueReplacer(models.QueueDrafts, KeyDraftsQueue),
		models.TypePriorityUpdate:     s.queueReplacer(models.QueuePriority, KeyPriorityQueue),
		models.TypeLearningUpdate:     s.queueReplacer(models.QueueLearning, KeyLearningQueue),
		models.TypeUpdatePriorityItem: s.applyPriorityPatch,
		models.TypeRemoveLearning:     s.applyRemoveLearning,
		models.TypeNewFactAdded:       s.applyNewFact,
		models.TypeLog:                s.applyLog,
		models.TypeStatusUpdate:       s.applyStatusUpdate,
		models.TypeChatUpdate:         s.applyChatUpdate,
		models.TypeChatHistoryCleared: s.applyChatCleared,
		models.TypeSmartReplies:       s.applySmartReplies,
	}
	return s
}

// SetLogger sets the logger for debug output
func (s *Store) SetLogger(logger *log.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// Watch registers a callback invoked after every applied change. The
// callback runs on the mutating goroutine and must not call back into the
// store.
func (s *Store) Watch(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

// Apply dispatches one push envelope by type. Unknown types and malformed
// payloads are ignored: the reducer never fails on server input.
func (s *Store) Apply(ctx context.Context, env models.Envelope) {
	handler, ok := s.handlers[env.Type]
	if !ok {
		s.debugf("state: ignoring unknown message type %q", env.Type)
		return
	}
	handler(ctx, env.Payload, env.NotificationType)
}

// Hydrate loads the last persisted snapshots so the UI has data before
// the live channel connects. Corrupt or missing entries silently yield
// empty defaults.
func (s *Store) Hydrate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	for key, q := range map[string]models.Queue{
		KeyPriorityQueue: models.QueuePriority,
		KeyDraftsQueue:   models.QueueDrafts,
		KeyLearningQueue: models.QueueLearning,
		KeyStarredQueue:  models.QueueStarred,
	} {
		var items []models.QueueItem
		if s.loadSnapshot(ctx, key, &items) && items != nil {
			s.queues[q] = items
		}
	}
	var activity []models.ActivityEntry
	if s.loadSnapshot(ctx, KeyActivityFeed, &activity) && activity != nil {
		s.activity = capActivity(activity)
	}
	var chat []models.ChatMessage
	if s.loadSnapshot(ctx, KeyChatHistory, &chat) && chat != nil {
		s.chat = chat
	}
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeAll})
}

// loadSnapshot returns true only when the key was present and valid JSON
func (s *Store) loadSnapshot(ctx context.Context, key string, out interface{}) bool {
	raw, found, err := s.cache.Load(ctx, key)
	if err != nil || !found {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.debugf("state: discarding corrupt snapshot %q: %v", key, err)
		return false
	}
	return true
}

// Status returns the current agent status
func (s *Store) Status() models.AgentStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SetStatus sets a connection-derived status (used by the live channel)
func (s *Store) SetStatus(ctx context.Context, status models.AgentStatus) {
	s.mu.Lock()
	s.status = status
	s.mirror(ctx, KeyAgentStatus, status)
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeStatus})
}

// LastChecked returns the server-reported last check time
func (s *Store) LastChecked() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastChecked
}

// Queue returns a copy of the named queue's items in order
func (s *Store) Queue(q models.Queue) []models.QueueItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.queues[q]
	out := make([]models.QueueItem, len(items))
	copy(out, items)
	return out
}

// Item returns the item with the given id in the named queue, if present
func (s *Store) Item(q models.Queue, id string) (models.QueueItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.queues[q] {
		if it.ID == id {
			return it, true
		}
	}
	return models.QueueItem{}, false
}

// Chat returns a copy of the chat history in order
func (s *Store) Chat() []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ChatMessage, len(s.chat))
	copy(out, s.chat)
	return out
}

// Activity returns a copy of the activity feed, newest first
func (s *Store) Activity() []models.ActivityEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ActivityEntry, len(s.activity))
	copy(out, s.activity)
	return out
}

// SmartReplies returns the current transient smart-reply suggestions
func (s *Store) SmartReplies() models.SmartReplyPayload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.smartReplies
}

// Facts returns a copy of the knowledge-base view
func (s *Store) Facts() []models.Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Fact, len(s.facts))
	copy(out, s.facts)
	return out
}

// SetFacts replaces the knowledge-base view (bootstrap fetch)
func (s *Store) SetFacts(facts []models.Fact) {
	s.mu.Lock()
	if facts == nil {
		facts = []models.Fact{}
	}
	s.facts = facts
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeFacts})
}

// --- push handlers ---

func (s *Store) applyInitialState(ctx context.Context, payload json.RawMessage, _ string) {
	var init models.InitialState
	if err := json.Unmarshal(payload, &init); err != nil {
		s.debugf("state: malformed initial_state: %v", err)
		return
	}
	s.mu.Lock()
	s.queues[models.QueuePriority] = orEmpty(init.PriorityQueue)
	s.queues[models.QueueDrafts] = orEmpty(init.DraftsQueue)
	s.queues[models.QueueLearning] = orEmpty(init.LearningQueue)
	s.queues[models.QueueStarred] = orEmpty(init.StarredQueue)
	s.activity = capActivity(init.ActivityFeed)
	if s.activity == nil {
		s.activity = []models.ActivityEntry{}
	}
	s.chat = init.ChatHistory
	if s.chat == nil {
		s.chat = []models.ChatMessage{}
	}
	if init.AgentStatus != "" {
		s.status = init.AgentStatus
	}
	s.lastChecked = init.LastChecked
	// A full server snapshot supersedes every unconfirmed local change
	s.pending = make(map[string]*pendingMutation)
	s.mirror(ctx, KeyPriorityQueue, s.queues[models.QueuePriority])
	s.mirror(ctx, KeyDraftsQueue, s.queues[models.QueueDrafts])
	s.mirror(ctx, KeyLearningQueue, s.queues[models.QueueLearning])
	s.mirror(ctx, KeyStarredQueue, s.queues[models.QueueStarred])
	s.mirror(ctx, KeyActivityFeed, s.activity)
	s.mirror(ctx, KeyChatHistory, s.chat)
	s.mirror(ctx, KeyAgentStatus, s.status)
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeAll})
}

// queueReplacer builds the handler for a full-replace queue update
func (s *Store) queueReplacer(q models.Queue, key string) func(context.Context, json.RawMessage, string) {
	return func(ctx context.Context, payload json.RawMessage, _ string) {
		items, err := models.DecodeList(payload)
		if err != nil {
			s.debugf("state: malformed %s update: %v", q, err)
			return
		}
		s.mu.Lock()
		s.queues[q] = items
		// Server state wins: drop unconfirmed optimistic changes on this queue
		for id, p := range s.pending {
			if p.queue == q {
				delete(s.pending, id)
			}
		}
		s.mirror(ctx, key, items)
		s.mu.Unlock()
		s.notify(Change{Kind: ChangeQueue, Queue: q})
	}
}

func (s *Store) applyPriorityPatch(ctx context.Context, payload json.RawMessage, _ string) {
	var patch models.PriorityItemPatch
	if err := json.Unmarshal(payload, &patch); err != nil || patch.ID == "" {
		s.debugf("state: malformed update_priority_item")
		return
	}
	s.mu.Lock()
	patched := false
	items := s.queues[models.QueuePriority]
	for i := range items {
		if items[i].ID == patch.ID {
			items[i].Seen = patch.Seen
			patched = true
			break
		}
	}
	if patched {
		s.mirror(ctx, KeyPriorityQueue, items)
	}
	s.mu.Unlock()
	if patched {
		s.notify(Change{Kind: ChangeQueue, Queue: models.QueuePriority})
	}
}

func (s *Store) applyRemoveLearning(ctx context.Context, payload json.RawMessage, _ string) {
	var rm models.RemovedItem
	if err := json.Unmarshal(payload, &rm); err != nil || rm.ID == "" {
		s.debugf("state: malformed remove_learning")
		return
	}
	s.mu.Lock()
	items := s.queues[models.QueueLearning]
	removed := false
	for i := range items {
		if items[i].ID == rm.ID {
			s.queues[models.QueueLearning] = append(items[:i:i], items[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		s.mirror(ctx, KeyLearningQueue, s.queues[models.QueueLearning])
	}
	s.mu.Unlock()
	if removed {
		s.notify(Change{Kind: ChangeQueue, Queue: models.QueueLearning})
	}
}

func (s *Store) applyNewFact(ctx context.Context, payload json.RawMessage, _ string) {
	var fact models.Fact
	if err := json.Unmarshal(payload, &fact); err != nil || fact.Fact == "" {
		s.debugf("state: malformed new_fact_added")
		return
	}
	s.mu.Lock()
	s.facts = append(s.facts, fact)
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeFacts})
}

func (s *Store) applyLog(ctx context.Context, payload json.RawMessage, notificationType string) {
	var entry models.ActivityEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		s.debugf("state: malformed log entry: %v", err)
		return
	}
	s.mu.Lock()
	s.activity = capActivity(append([]models.ActivityEntry{entry}, s.activity...))
	s.mirror(ctx, KeyActivityFeed, s.activity)
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeActivity, Entry: &entry, NotificationType: notificationType})
}

func (s *Store) applyStatusUpdate(ctx context.Context, payload json.RawMessage, _ string) {
	var sp models.StatusPayload
	if err := json.Unmarshal(payload, &sp); err != nil || sp.AgentStatus == "" {
		s.debugf("state: malformed status_update")
		return
	}
	s.mu.Lock()
	s.status = sp.AgentStatus
	s.mirror(ctx, KeyAgentStatus, s.status)
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeStatus})
}

func (s *Store) applyChatUpdate(ctx context.Context, payload json.RawMessage, _ string) {
	var msg models.ChatMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		s.debugf("state: malformed chat_update: %v", err)
		return
	}
	s.mu.Lock()
	s.chat = append(s.chat, msg)
	s.mirror(ctx, KeyChatHistory, s.chat)
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeChat})
}

func (s *Store) applyChatCleared(ctx context.Context, _ json.RawMessage, _ string) {
	s.mu.Lock()
	s.chat = []models.ChatMessage{}
	s.mirror(ctx, KeyChatHistory, s.chat)
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeChat})
}

func (s *Store) applySmartReplies(ctx context.Context, payload json.RawMessage, _ string) {
	var sr models.SmartReplyPayload
	if err := json.Unmarshal(payload, &sr); err != nil {
		s.debugf("state: malformed smart_reply_suggestions: %v", err)
		return
	}
	s.mu.Lock()
	s.smartReplies = sr
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeSmartReplies})
}

// --- optimistic two-phase API ---

// OptimisticRemove removes the item locally ahead of server confirmation
// and returns a correlation id for Confirm/Rollback. Returns false if the
// item is not present.
func (s *Store) OptimisticRemove(ctx context.Context, q models.Queue, id string) (string, bool) {
	s.mu.Lock()
	items := s.queues[q]
	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return "", false
	}
	corrID := uuid.New().String()
	s.pending[corrID] = &pendingMutation{
		queue:      q,
		id:         id,
		removed:    true,
		prior:      items[idx],
		priorIndex: idx,
	}
	s.queues[q] = append(items[:idx:idx], items[idx+1:]...)
	s.mirror(ctx, snapshotKey(q), s.queues[q])
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeQueue, Queue: q})
	return corrID, true
}

// OptimisticPatch applies fn to the item locally ahead of server
// confirmation. The item's prior value is captured for rollback.
func (s *Store) OptimisticPatch(ctx context.Context, q models.Queue, id string, fn func(*models.QueueItem)) (string, bool) {
	s.mu.Lock()
	items := s.queues[q]
	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return "", false
	}
	corrID := uuid.New().String()
	s.pending[corrID] = &pendingMutation{
		queue:      q,
		id:         id,
		prior:      items[idx],
		priorIndex: idx,
	}
	fn(&items[idx])
	items[idx].ID = id // identity is immutable
	s.mirror(ctx, snapshotKey(q), items)
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeQueue, Queue: q})
	return corrID, true
}

// Confirm completes an optimistic mutation after the gateway call
// succeeded. The local state is already correct; only the rollback record
// is dropped.
func (s *Store) Confirm(correlationID string) {
	s.mu.Lock()
	delete(s.pending, correlationID)
	s.mu.Unlock()
}

// Rollback undoes an optimistic mutation after the gateway call failed.
// If a server replace already superseded the mutation the rollback is a
// no-op. Removed items are restored at their prior position.
func (s *Store) Rollback(ctx context.Context, correlationID string) {
	s.mu.Lock()
	p, ok := s.pending[correlationID]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.pending, correlationID)
	items := s.queues[p.queue]
	if p.removed {
		idx := p.priorIndex
		if idx > len(items) {
			idx = len(items)
		}
		items = append(items[:idx:idx], append([]models.QueueItem{p.prior}, items[idx:]...)...)
		s.queues[p.queue] = items
	} else {
		for i := range items {
			if items[i].ID == p.id {
				items[i] = p.prior
				break
			}
		}
	}
	s.mirror(ctx, snapshotKey(p.queue), s.queues[p.queue])
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeQueue, Queue: p.queue})
}

// --- internals ---

func snapshotKey(q models.Queue) string {
	switch q {
	case models.QueuePriority:
		return KeyPriorityQueue
	case models.QueueDrafts:
		return KeyDraftsQueue
	case models.QueueLearning:
		return KeyLearningQueue
	case models.QueueStarred:
		return KeyStarredQueue
	default:
		return ""
	}
}

// mirror writes one collection through to the cache port. Mirror failures
// are logged and otherwise ignored: the cache is best-effort. Caller must
// hold s.mu.
func (s *Store) mirror(ctx context.Context, key string, value interface{}) {
	if s.cache == nil || key == "" {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Save(ctx, key, string(data)); err != nil {
		s.debugf("state: snapshot save %q failed: %v", key, err)
	}
}

func (s *Store) notify(c Change) {
	s.mu.RLock()
	watchers := s.watchers
	s.mu.RUnlock()
	for _, fn := range watchers {
		fn(c)
	}
}

func (s *Store) debugf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func orEmpty(items []models.QueueItem) []models.QueueItem {
	if items == nil {
		return []models.QueueItem{}
	}
	return items
}

func capActivity(entries []models.ActivityEntry) []models.ActivityEntry {
	if len(entries) > models.ActivityFeedCap {
		return entries[:models.ActivityFeedCap]
	}
	return entries
}
