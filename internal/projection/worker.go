package projection

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adjamedev/transport-marketplace/internal/db"
	"github.com/adjamedev/transport-marketplace/internal/models"
)

// Event describes a route creation whose comparison projection must be
// refreshed.
type Event struct {
	Route       models.Route
	CompanyName string
}

// Worker consumes route-created events and keeps the EnhancedRoute projection
// in step with the normalized routes. The route write is the source of truth;
// projection updates are asynchronous and best-effort. A failed or dropped
// update is logged and never surfaced to the request that caused it.
type Worker struct {
	enhanced db.EnhancedRouteCollection
	events   chan Event
	stopOnce sync.Once
	done     chan struct{}
}

const upsertTimeout = 10 * time.Second

// NewWorker builds a worker with the given event buffer size.
func NewWorker(enhanced db.EnhancedRouteCollection, buffer int) *Worker {
	if buffer <= 0 {
		buffer = 64
	}
	return &Worker{
		enhanced: enhanced,
		events:   make(chan Event, buffer),
		done:     make(chan struct{}),
	}
}

// Enqueue hands an event to the worker without blocking the request path.
// When the buffer is full the event is dropped and logged.
func (w *Worker) Enqueue(ev Event) {
	select {
	case w.events <- ev:
	default:
		logrus.WithFields(logrus.Fields{
			"routeKey": models.RouteKey(ev.Route.DepartureCity, ev.Route.ArrivalCity),
			"company":  ev.CompanyName,
		}).Warn("projection queue full, event dropped")
	}
}

// Run processes events until Stop is called. Call it from a goroutine.
func (w *Worker) Run() {
	for ev := range w.events {
		w.apply(ev)
	}
	close(w.done)
}

func (w *Worker) apply(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), upsertTimeout)
	defer cancel()

	proj := models.ProjectionFromRoute(ev.Route, ev.CompanyName)
	if err := w.enhanced.Upsert(ctx, proj); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"routeKey": proj.RouteKey,
			"company":  proj.CompanyName,
		}).Warn("projection update failed")
		return
	}
	logrus.WithField("routeKey", proj.RouteKey).Debug("projection updated")
}

// Stop drains pending events and waits for the worker to exit.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.events)
	})
	<-w.done
}
