package docstore

import (
	"context"

	"golang.org/x/time/rate"

	"taskdeck/internal/task/repository"
)

// Watch opens a long-poll loop against the store's watch endpoint.
// Each server response carrying a new store version becomes one
// snapshot event; transport failures become error events and the loop
// keeps polling. The rate limiter paces re-polls so a failing or
// instantly-returning server cannot turn the loop into a busy spin.
func (c *Client) Watch(ctx context.Context, opt repository.WatchOptions) (<-chan repository.Event, error) {
	events := make(chan repository.Event)
	go c.watchLoop(ctx, opt, events)
	return events, nil
}

func (c *Client) watchLoop(ctx context.Context, opt repository.WatchOptions, events chan<- repository.Event) {
	defer close(events)

	limiter := rate.NewLimiter(rate.Every(c.pollInterval), 1)

	var (
		have bool
		last uint64
	)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		snap, err := c.poll(ctx, opt.OwnerID, have, last)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.l.Warnf(ctx, "docstore: watch poll failed: %v", err)
			if !send(ctx, events, repository.Event{Err: err}) {
				return
			}
			continue
		}

		// Unchanged version means the long poll timed out server-side.
		if have && snap.Version == last {
			continue
		}
		last, have = snap.Version, true

		if !send(ctx, events, repository.Event{Snapshot: snap}) {
			return
		}
	}
}

func send(ctx context.Context, events chan<- repository.Event, ev repository.Event) bool {
	select {
	case <-ctx.Done():
		return false
	case events <- ev:
		return true
	}
}
