package diagram

// listenerList holds registered callbacks in registration order. Each
// registration gets its own id so removal works for values that are not
// comparable, such as funcs.
type listenerList[T any] struct {
	nextID  int
	entries []listenerEntry[T]
}

type listenerEntry[T any] struct {
	id int
	fn T
}

// add registers fn and returns the handle that removes it.
func (l *listenerList[T]) add(fn T) Subscription {
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, listenerEntry[T]{id: id, fn: fn})
	return &subscription{cancel: func() { l.remove(id) }}
}

func (l *listenerList[T]) remove(id int) {
	for i, e := range l.entries {
		if e.id == id {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return
		}
	}
}

// snapshot returns the current callbacks. Listeners added or removed while
// the snapshot is being notified take effect on the next notification.
func (l *listenerList[T]) snapshot() []T {
	out := make([]T, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.fn
	}
	return out
}

func (l *listenerList[T]) len() int {
	return len(l.entries)
}

type subscription struct {
	cancel func()
}

func (s *subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
