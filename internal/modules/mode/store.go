package mode

import (
	"context"
	"fmt"
	"sync"
)

// Store tracks the mode of one session and writes every change through to
// its Storage before it becomes visible.
type Store struct {
	mu          sync.Mutex
	current     Mode
	storage     Storage
	subscribers map[int]chan Mode
	nextSub     int
}

// NewStore reads the persisted mode once. A missing or unrecognised value
// yields User. A read failure also yields a usable User store, returned
// together with an error wrapping ErrStorage.
func NewStore(ctx context.Context, storage Storage) (*Store, error) {
	s := &Store{current: User, storage: storage, subscribers: make(map[int]chan Mode)}

	v, ok, err := storage.GetItem(ctx, StorageKey)
	if err != nil {
		return s, fmt.Errorf("%w: read %s: %v", ErrStorage, StorageKey, err)
	}
	if m, valid := Parse(v); ok && valid {
		s.current = m
	}
	return s, nil
}

// Current returns the active mode.
func (s *Store) Current() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetMode persists m and makes it current. On a storage failure the
// current mode is left unchanged.
func (s *Store) SetMode(ctx context.Context, m Mode) error {
	if _, ok := Parse(string(m)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidMode, m)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, m)
}

// Toggle flips between user and business and returns the new mode.
func (s *Store) Toggle(ctx context.Context) (Mode, error) {
	return s.ToggleIf(ctx, nil)
}

// ToggleIf is Toggle guarded by allow, which sees the target mode and runs
// under the store lock. A non-nil error from allow aborts the switch and is
// returned as is.
func (s *Store) ToggleIf(ctx context.Context, allow func(target Mode) error) (Mode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.current.Other()
	if allow != nil {
		if err := allow(next); err != nil {
			return s.current, err
		}
	}
	if err := s.commit(ctx, next); err != nil {
		return s.current, err
	}
	return next, nil
}

func (s *Store) commit(ctx context.Context, m Mode) error {
	if err := s.storage.SetItem(ctx, StorageKey, string(m)); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStorage, StorageKey, err)
	}
	s.current = m
	for _, ch := range s.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- m
	}
	return nil
}

// Subscribe returns a channel receiving each committed mode and a cancel
// func that closes it. Only the newest undelivered mode is kept.
func (s *Store) Subscribe() (<-chan Mode, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Mode, 1)
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
}
