package notify

import "sync"

type Listener interface {
	Notify(n *Notification)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(n *Notification)

func (f ListenerFunc) Notify(n *Notification) { f(n) }

// Bus fans notifications out to its subscribers.
type Bus struct {
	mu        sync.RWMutex
	next      int
	listeners map[int]Listener
	order     []int
}

func NewBus() *Bus {
	return &Bus{listeners: make(map[int]Listener)}
}

// Subscribe registers l and returns a function that removes it.
func (b *Bus) Subscribe(l Listener) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.listeners[id] = l
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.listeners, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers n to every current listener in subscription order.
func (b *Bus) Publish(n *Notification) {
	b.mu.RLock()
	ls := make([]Listener, 0, len(b.order))
	for _, id := range b.order {
		ls = append(ls, b.listeners[id])
	}
	b.mu.RUnlock()

	for _, l := range ls {
		l.Notify(n)
	}
}
