package toast

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func TestStore_AddKeepsCallOrder(t *testing.T) {
	s := NewStore()

	var ids []string
	for i, kind := range []Kind{KindInfo, KindSuccess, KindError, KindInfo} {
		id, err := s.Add(fmt.Sprintf("msg %d", i), kind)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	list := s.List()
	require.Len(t, list, 4)
	seen := make(map[string]bool)
	for i, n := range list {
		assert.Equal(t, ids[i], n.ID)
		assert.Equal(t, fmt.Sprintf("msg %d", i), n.Message)
		assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
}

func TestStore_AddThenRemove(t *testing.T) {
	s := NewStore()

	id, err := s.Add("x", KindInfo)
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, "x", list[0].Message)
	assert.Equal(t, KindInfo, list[0].Kind)

	s.Remove(id)
	assert.Empty(t, s.List())
}

func TestStore_RemoveIsIdempotent(t *testing.T) {
	s := NewStore()
	id, err := s.Add("once", KindSuccess)
	require.NoError(t, err)
	keep, err := s.Add("keep", KindSuccess)
	require.NoError(t, err)

	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	assert.NotPanics(t, func() {
		s.Remove(id)
		s.Remove(id)
		s.Remove("does-not-exist")
	})

	require.Len(t, events, 1)
	assert.Equal(t, EventRemoved, events[0].Type)
	require.Len(t, s.List(), 1)
	assert.Equal(t, keep, s.List()[0].ID)
}

func TestStore_RejectsInvalidKind(t *testing.T) {
	s := NewStore()

	id, err := s.Add("nope", Kind("warning"))
	require.ErrorIs(t, err, ErrInvalidKind)
	assert.Empty(t, id)
	assert.Zero(t, s.Len())
}

func TestStore_ListIsACopy(t *testing.T) {
	s := NewStore()
	_, err := s.Add("original", KindInfo)
	require.NoError(t, err)

	list := s.List()
	list[0].Message = "mutated"

	assert.Equal(t, "original", s.List()[0].Message)
}

func TestStore_SubscribeReceivesSnapshots(t *testing.T) {
	s := NewStore(WithIDGenerator(sequentialIDs()))

	var events []Event
	cancel := s.Subscribe(func(ev Event) { events = append(events, ev) })

	_, err := s.Add("a", KindInfo)
	require.NoError(t, err)
	_, err = s.Add("b", KindError)
	require.NoError(t, err)
	s.Remove("t1")

	require.Len(t, events, 3)
	assert.Equal(t, EventAdded, events[0].Type)
	assert.Len(t, events[0].Snapshot, 1)
	assert.Equal(t, "b", events[1].Notification.Message)
	assert.Len(t, events[1].Snapshot, 2)
	assert.Equal(t, EventRemoved, events[2].Type)
	assert.Equal(t, "t1", events[2].Notification.ID)
	require.Len(t, events[2].Snapshot, 1)
	assert.Equal(t, "t2", events[2].Snapshot[0].ID)

	cancel()
	cancel()
	_, err = s.Add("c", KindInfo)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestStore_ListenerMayCallBack(t *testing.T) {
	s := NewStore()
	s.Subscribe(func(ev Event) {
		if ev.Type == EventAdded && ev.Notification.Kind == KindError {
			s.Remove(ev.Notification.ID)
		}
	})

	_, err := s.Add("gone", KindError)
	require.NoError(t, err)
	_, err = s.Add("stays", KindInfo)
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "stays", list[0].Message)
}

func TestStore_MaxLenEvictsOldest(t *testing.T) {
	s := NewStore(WithMaxLen(2), WithIDGenerator(sequentialIDs()))

	var removed []string
	s.Subscribe(func(ev Event) {
		if ev.Type == EventRemoved {
			removed = append(removed, ev.Notification.ID)
		}
	})

	for _, m := range []string{"one", "two", "three"} {
		_, err := s.Add(m, KindInfo)
		require.NoError(t, err)
	}

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "two", list[0].Message)
	assert.Equal(t, "three", list[1].Message)
	assert.Equal(t, []string{"t1"}, removed)
}

func TestStore_TTLDismisses(t *testing.T) {
	s := NewStore(WithTTL(20 * time.Millisecond))
	defer s.Close()

	_, err := s.Add("short lived", KindSuccess)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	require.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestStore_CloseStopsTimers(t *testing.T) {
	s := NewStore(WithTTL(20 * time.Millisecond))

	_, err := s.Add("sticky", KindInfo)
	require.NoError(t, err)
	s.Close()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, s.Len())
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	ids := make(chan string, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := s.Add(fmt.Sprintf("n%d", i), KindInfo)
			assert.NoError(t, err)
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.Equal(t, 100, s.Len())
}

func TestParseKind(t *testing.T) {
	for _, in := range []string{"success", "error", "info"} {
		k, err := ParseKind(in)
		require.NoError(t, err)
		assert.Equal(t, in, k.String())
	}

	_, err := ParseKind("Success")
	assert.ErrorIs(t, err, ErrInvalidKind)
	_, err = ParseKind("")
	assert.ErrorIs(t, err, ErrInvalidKind)
}
