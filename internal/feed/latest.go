package feed

// Latest is a one-slot mailbox that keeps only the newest snapshot. It lets a
// slow consumer (a websocket writer) skip stale snapshots without ever
// blocking Publish.
type Latest[T any] struct {
	ch chan T
}

func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{ch: make(chan T, 1)}
}

// Put replaces any pending value with v.
func (l *Latest[T]) Put(v T) {
	for {
		select {
		case l.ch <- v:
			return
		default:
		}
		select {
		case <-l.ch:
		default:
		}
	}
}

// C is the receive side.
func (l *Latest[T]) C() <-chan T {
	return l.ch
}
