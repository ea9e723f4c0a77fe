// internal/event/event.go
package event

import (
	"reflect"
	"sync"
)

// EventType — тип события
type EventType string

// Event — структура события
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data,omitempty"` // Данные события, если нужны
}

// Listener — интерфейс для подписчиков на события
type Listener interface {
	OnEvent(event Event)
}

// ListenerFunc adapts a plain function to Listener. Function listeners are
// not comparable; unsubscribing one is a no-op.
type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }

// Dispatcher — диспетчер событий. Safe for concurrent use; listeners run on
// the dispatching goroutine.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]Listener
	all       []Listener
}

// NewDispatcher — создаёт новый диспетчер
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[EventType][]Listener),
	}
}

// Subscribe — подписка на событие
func (d *Dispatcher) Subscribe(eventType EventType, listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], listener)
}

// SubscribeAll registers a listener for every event type.
func (d *Dispatcher) SubscribeAll(listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.all = append(d.all, listener)
}

// Unsubscribe — отписка от события
func (d *Dispatcher) Unsubscribe(eventType EventType, listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if listeners, exists := d.listeners[eventType]; exists {
		for i, l := range listeners {
			if sameListener(l, listener) {
				d.listeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// UnsubscribeAll removes a listener registered with SubscribeAll.
func (d *Dispatcher) UnsubscribeAll(listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, l := range d.all {
		if sameListener(l, listener) {
			d.all = append(d.all[:i], d.all[i+1:]...)
			break
		}
	}
}

// sameListener сравнивает подписчиков, не паникуя на несравнимых типах.
func sameListener(a, b Listener) bool {
	ta := reflect.TypeOf(a)
	if ta == nil || ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// Dispatch — отправка события всем подписчикам
func (d *Dispatcher) Dispatch(event Event) {
	d.mu.RLock()
	listeners := append([]Listener(nil), d.listeners[event.Type]...)
	listeners = append(listeners, d.all...)
	d.mu.RUnlock()
	for _, listener := range listeners {
		listener.OnEvent(event)
	}
}
