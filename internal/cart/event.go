package cart

// NoIndex is the Event index for changes that do not address a single slot.
const NoIndex = -1

type EventKind string

const (
	EventAdded           EventKind = "added"
	EventRemoved         EventKind = "removed"
	EventQuantityChanged EventKind = "quantity-changed"
	EventCleared         EventKind = "cleared"
)

// Event describes a successful, persisted mutation.
type Event struct {
	Kind  EventKind `json:"kind"`
	Index int       `json:"index"`
}

// Observer is called synchronously after each successful mutation.
type Observer func(Event)

type subscription struct {
	id int
	fn Observer
}

// Subscribe registers fn. Observers run in registration order. The returned
// function removes the registration.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	id := s.nextSubID
	s.nextSubID++
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(ev Event) {
	subs := s.observers
	for _, sub := range subs {
		if sub.fn != nil {
			sub.fn(ev)
		}
	}
}
