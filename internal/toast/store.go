package toast

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notification is a single visible toast.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// EventType tells listeners how the list changed.
type EventType string

const (
	EventAdded   EventType = "added"
	EventRemoved EventType = "removed"
)

// Event is delivered to listeners after every change of a Store.
type Event struct {
	Type         EventType
	Notification Notification
	// Snapshot is the list after the change, in display order.
	Snapshot []Notification
}

// Listener observes a Store.
type Listener func(Event)

// Manager is the producer side of a Store.
type Manager interface {
	Add(message string, kind Kind) (string, error)
	Remove(id string)
}

// Option configures a Store.
type Option func(*Store)

// WithTTL dismisses every notification d after it was added.
// Zero disables auto-dismiss.
func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		s.ttl = d
	}
}

// WithMaxLen caps the list; adding past the cap removes the oldest
// notification. Zero means unbounded.
func WithMaxLen(n int) Option {
	return func(s *Store) {
		s.maxLen = n
	}
}

// WithListener subscribes l when the Store is created.
func WithListener(l Listener) Option {
	return func(s *Store) {
		s.subscribe(l)
	}
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		s.now = fn
	}
}

type subscription struct {
	id uint64
	fn Listener
}

// Store holds the visible notifications of one visitor.
type Store struct {
	mu        sync.Mutex
	items     []Notification
	listeners []subscription
	nextSub   uint64
	// subscribers counts Subscribe calls not yet canceled.
	subscribers int
	timers    map[string]*time.Timer
	ttl       time.Duration
	maxLen    int
	newID     func() string
	now       func() time.Time
	lastUsed  time.Time
	closed    bool
}

var _ Manager = (*Store)(nil)

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		timers: make(map[string]*time.Timer),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastUsed = s.now()
	return s
}

// Add appends a notification and returns its id.
func (s *Store) Add(message string, kind Kind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, string(kind))
	}

	s.mu.Lock()
	n := Notification{
		ID:        s.newID(),
		Message:   message,
		Kind:      kind,
		CreatedAt: s.now(),
	}
	s.items = append(s.items, n)
	s.lastUsed = n.CreatedAt

	var evicted []Notification
	if s.maxLen > 0 {
		for len(s.items) > s.maxLen {
			evicted = append(evicted, s.items[0])
			s.stopTimer(s.items[0].ID)
			s.items = s.items[1:]
		}
	}

	if s.ttl > 0 && !s.closed {
		id := n.ID
		s.timers[id] = time.AfterFunc(s.ttl, func() { s.Remove(id) })
	}

	events := make([]Event, 0, len(evicted)+1)
	snapshot := s.snapshot()
	for _, e := range evicted {
		events = append(events, Event{Type: EventRemoved, Notification: e, Snapshot: snapshot})
	}
	events = append(events, Event{Type: EventAdded, Notification: n, Snapshot: snapshot})
	listeners := s.listenersLocked()
	s.mu.Unlock()

	for _, ev := range events {
		dispatch(listeners, ev)
	}
	return n.ID, nil
}

// Remove deletes the notification with the given id. Unknown ids are
// ignored.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	idx := -1
	for i, n := range s.items {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	removed := s.items[idx]
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	s.stopTimer(id)
	s.lastUsed = s.now()
	ev := Event{Type: EventRemoved, Notification: removed, Snapshot: s.snapshot()}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	dispatch(listeners, ev)
}

// List returns the visible notifications in display order.
func (s *Store) List() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Len returns the number of visible notifications.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Subscribe registers l and returns a function that unregisters it.
func (s *Store) Subscribe(l Listener) (cancel func()) {
	s.mu.Lock()
	id := s.subscribe(l)
	s.subscribers++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.subscribers--
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// LastUsed returns the time of the last change or Registry.Get.
func (s *Store) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Watched reports whether a Subscribe call is still active. Listeners
// installed with WithListener do not count.
func (s *Store) Watched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscribers > 0
}

func (s *Store) touch() {
	s.mu.Lock()
	s.lastUsed = s.now()
	s.mu.Unlock()
}

// Close stops pending auto-dismiss timers. Notifications already in the
// list stay until removed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id := range s.timers {
		s.stopTimer(id)
	}
}

// subscribe must be called with s.mu held or before s is shared.
func (s *Store) subscribe(l Listener) uint64 {
	s.nextSub++
	s.listeners = append(s.listeners, subscription{id: s.nextSub, fn: l})
	return s.nextSub
}

func (s *Store) stopTimer(id string) {
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *Store) snapshot() []Notification {
	out := make([]Notification, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) listenersLocked() []Listener {
	out := make([]Listener, len(s.listeners))
	for i, sub := range s.listeners {
		out[i] = sub.fn
	}
	return out
}

func dispatch(listeners []Listener, ev Event) {
	for _, l := range listeners {
		l(ev)
	}
}
