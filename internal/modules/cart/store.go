package cart

import "sync"

// Action is a cart intent dispatched to a Store.
type Action interface{ apply(Reducer, State) State }

// AddItemAction adds one unit of Product.
type AddItemAction struct{ Product Product }

// RemoveItemAction removes one unit of ProductID.
type RemoveItemAction struct{ ProductID string }

// ClearAction empties the cart.
type ClearAction struct{}

// MergeAction replays every unit of State's lines, in order, as AddItem
// steps. A cart from another seller therefore replaces the current one, and
// combined quantities stop at the inventory cap.
type MergeAction struct{ State State }

func (a AddItemAction) apply(r Reducer, s State) State { return r.AddItem(s, a.Product) }

func (a RemoveItemAction) apply(r Reducer, s State) State { return r.RemoveItem(s, a.ProductID) }

func (ClearAction) apply(Reducer, State) State { return Clear() }

func (a MergeAction) apply(r Reducer, s State) State {
	for _, line := range a.State.Items {
		for i := 0; i < line.Quantity; i++ {
			s = r.AddItem(s, line.Product)
		}
	}
	return s
}

// Option configures a Store.
type Option func(*Store)

// WithUnguardedRemove makes RemoveItem decrement TotalQuantity even when
// the product has no line and keeps the seller once the cart runs empty,
// matching the storefront's historical behaviour.
func WithUnguardedRemove() Option {
	return func(s *Store) { s.reducer.unguardedRemove = true }
}

// Store owns one cart. Dispatches are serialised; every new State is
// published to all subscribers.
type Store struct {
	mu          sync.Mutex
	reducer     Reducer
	state       State
	subscribers map[int]chan State
	nextSub     int
}

// NewStore returns a store holding the empty cart.
func NewStore(opts ...Option) *Store {
	s := &Store{state: Clear(), subscribers: make(map[int]chan State)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current State.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Dispatch applies a and returns the resulting State.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(a.apply(s.reducer, s.state))
}

// set installs next and notifies subscribers. Callers hold the store lock.
func (s *Store) set(next State) State {
	s.state = next
	snap := s.state.clone()
	for _, ch := range s.subscribers {
		publish(ch, snap.clone())
	}
	return snap
}

func (s *Store) AddItem(p Product) State { return s.Dispatch(AddItemAction{Product: p}) }

func (s *Store) RemoveItem(productID string) State {
	return s.Dispatch(RemoveItemAction{ProductID: productID})
}

func (s *Store) Clear() State { return s.Dispatch(ClearAction{}) }

func (s *Store) Merge(other State) State { return s.Dispatch(MergeAction{State: other}) }

// Take empties the cart and returns what it held, in one step.
func (s *Store) Take() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.clone()
	s.set(Clear())
	return prev
}

// Restore puts back a State returned by Take. If the cart is still empty
// it gets prev exactly; otherwise prev is merged into it.
func (s *Store) Restore(prev State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Empty() {
		return s.set(prev.clone())
	}
	return s.set(MergeAction{State: prev}.apply(s.reducer, s.state))
}

// Subscribe returns a channel receiving each new State and a cancel func
// that closes it. A subscriber that falls behind only sees the latest State.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan State, 1)
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

// publish replaces any undelivered snapshot with st. Callers hold the store lock.
func publish(ch chan State, st State) {
	select {
	case <-ch:
	default:
	}
	ch <- st
}
