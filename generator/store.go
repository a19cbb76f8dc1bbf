package generator

import (
	"maps"
	"sync"

	"postpilot/api"
)

// State is what the store holds. A nil Params or Blog means unset; an empty
// TrendTopic with nil TrendKeywords means no trend data.
type State struct {
	Params        *GenerationParams
	Blog          *api.BlogData
	TrendTopic    string
	TrendKeywords []string
}

// Store is the hand-off point between the writer form and the output view.
// Every action replaces whole values; nothing is merged.
type Store struct {
	mu          sync.RWMutex
	state       State
	nextID      int
	subscribers map[int]func(State)
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{subscribers: make(map[int]func(State))}
}

// SetParams replaces the generation params.
func (s *Store) SetParams(p GenerationParams) {
	s.update(func(st *State) { st.Params = &p })
}

// SetBlog replaces the blog; nil clears it.
func (s *Store) SetBlog(blog *api.BlogData) {
	s.update(func(st *State) {
		if blog == nil {
			st.Blog = nil
			return
		}
		b := copyBlog(*blog)
		st.Blog = &b
	})
}

// SetTrendData replaces both trend fields; nil clears them.
func (s *Store) SetTrendData(trend *api.TrendData) {
	s.update(func(st *State) {
		if trend == nil {
			st.TrendTopic, st.TrendKeywords = "", nil
			return
		}
		st.TrendTopic = trend.Topic
		st.TrendKeywords = copyStrings(trend.Keywords)
	})
}

// ClearAll resets every field, as on a fresh start.
func (s *Store) ClearAll() {
	s.update(func(st *State) { *st = State{} })
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe registers fn to receive a snapshot after every action.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Store) update(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.state.clone()
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

func (st State) clone() State {
	out := State{TrendTopic: st.TrendTopic, TrendKeywords: copyStrings(st.TrendKeywords)}
	if st.Params != nil {
		p := *st.Params
		out.Params = &p
	}
	if st.Blog != nil {
		b := copyBlog(*st.Blog)
		out.Blog = &b
	}
	return out
}

func copyBlog(b api.BlogData) api.BlogData {
	if b.Published != nil {
		published := *b.Published
		b.Published = &published
	}
	b.Extra = maps.Clone(b.Extra)
	return b
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
