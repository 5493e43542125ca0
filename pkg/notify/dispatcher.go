package notify

import (
	"context"
	"log"
	"time"

	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/models"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/email"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the slice of the outbox repository the dispatcher consumes.
type Store interface {
	FindPending(limit int) ([]*models.OutboxEvent, error)
	MarkSent(id primitive.ObjectID) error
	MarkFailed(id primitive.ObjectID, sendErr error, maxAttempts int) error
}

// Dispatcher drains the notification outbox. Delivery is at-least-once:
// an event stays pending until it is sent or exhausts its attempt
// budget, and a crash between send and MarkSent re-delivers.
type Dispatcher struct {
	store       Store
	sender      email.Sender
	interval    time.Duration
	batchSize   int
	maxAttempts int
	wake        chan struct{}
	cancel      context.CancelFunc
	done        chan struct{}
}

func NewDispatcher(store Store, sender email.Sender, interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Dispatcher{
		store:       store,
		sender:      sender,
		interval:    interval,
		batchSize:   50,
		maxAttempts: 5,
		wake:        make(chan struct{}, 1),
	}
}

// Start launches the polling loop.
func (d *Dispatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan struct{})

	go func() {
		defer close(d.done)
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			case <-d.wake:
			}
			if n, err := d.DispatchOnce(); err != nil {
				log.Printf("Outbox dispatch failed: %v", err)
			} else if n > 0 {
				log.Printf("Dispatched %d notification(s)", n)
			}
		}
	}()
}

// Stop terminates the loop and waits for it to exit.
func (d *Dispatcher) Stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
}

// Wake nudges the loop without waiting for the next tick. Mutations call
// this after enqueueing so delivery is prompt.
func (d *Dispatcher) Wake() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// DispatchOnce drains one batch of pending events and reports how many
// were delivered.
func (d *Dispatcher) DispatchOnce() (int, error) {
	events, err := d.store.FindPending(d.batchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, event := range events {
		to := event.Payload["To"]
		if err := d.sender.Send(event.Kind, to, event.Payload); err != nil {
			log.Printf("Failed to deliver %s notification %s: %v", event.Kind, event.ID.Hex(), err)
			if markErr := d.store.MarkFailed(event.ID, err, d.maxAttempts); markErr != nil {
				log.Printf("Failed to record delivery failure for %s: %v", event.ID.Hex(), markErr)
			}
			continue
		}
		if err := d.store.MarkSent(event.ID); err != nil {
			log.Printf("Failed to mark notification %s sent: %v", event.ID.Hex(), err)
			continue
		}
		sent++
	}

	return sent, nil
}
