// Package events reparte los avisos de cambio de estado (carrito, sesión,
// stock, órdenes) a los suscriptores del proceso.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Event struct {
	Name    string
	Payload any
	At      time.Time
}

type Handler func(ctx context.Context, e Event) error

// Bus sincrónico en memoria. Un suscriptor que falla o entra en pánico se
// registra en el log y no afecta al que publica ni al resto.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	all      []Handler
}

func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Subscribe registra h para los nombres dados; sin nombres recibe todo.
func (b *Bus) Subscribe(h Handler, names ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(names) == 0 {
		b.all = append(b.all, h)
		return
	}
	for _, n := range names {
		b.handlers[n] = append(b.handlers[n], h)
	}
}

func (b *Bus) Publish(ctx context.Context, name string, payload any) {
	if b == nil {
		return
	}
	b.mu.RLock()
	hs := make([]Handler, 0, len(b.handlers[name])+len(b.all))
	hs = append(hs, b.handlers[name]...)
	hs = append(hs, b.all...)
	b.mu.RUnlock()

	e := Event{Name: name, Payload: payload, At: time.Now()}
	for _, h := range hs {
		if err := dispatch(ctx, h, e); err != nil {
			log.Error().Err(err).Str("event", name).Msg("handler de evento falló")
		}
	}
}

func dispatch(ctx context.Context, h Handler, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(ctx, e)
}

// LogHandler deja una línea de log por evento.
func LogHandler(ctx context.Context, e Event) error {
	log.Debug().Str("event", e.Name).Interface("payload", e.Payload).Msg("evento")
	return nil
}
