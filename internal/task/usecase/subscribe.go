package usecase

import (
	"context"

	"taskdeck/internal/model"
	"taskdeck/internal/task"
	"taskdeck/internal/task/repository"
)

type subscription struct {
	cancel context.CancelFunc
}

func (s subscription) Close() { s.cancel() }

// Subscribe opens the live query and starts forwarding snapshots onto
// the UI loop. Closing the returned subscription cancels the watch and
// ends delivery; the final channel close stops the forwarding
// goroutine.
func (uc *implUseCase) Subscribe(ctx context.Context, ownerID string) (task.Subscription, error) {
	wctx, cancel := context.WithCancel(ctx)

	events, err := uc.store.Watch(wctx, repository.WatchOptions{OwnerID: ownerID})
	if err != nil {
		cancel()
		return nil, err
	}

	uc.publish(func(st *task.State) {
		st.Loading = true
		st.ErrorMessage = ""
	})

	go func() {
		for ev := range events {
			uc.apply(wctx, ev)
		}
	}()

	return subscription{cancel: cancel}, nil
}

func (uc *implUseCase) apply(ctx context.Context, ev repository.Event) {
	if ev.Err != nil {
		uc.l.Warnf(ctx, "task: watch error: %v", ev.Err)
		uc.publish(func(st *task.State) {
			st.Loading = false
			st.ErrorMessage = "failed to load tasks: " + ev.Err.Error()
		})
		return
	}

	tasks, err := decodeSnapshot(ev.Snapshot)
	if err != nil {
		// One bad document rejects the whole snapshot; the previous
		// task list stays visible.
		uc.l.Errorf(ctx, "task: rejecting snapshot v%d: %v", ev.Snapshot.Version, err)
		uc.publish(func(st *task.State) {
			st.Loading = false
			st.ErrorMessage = "failed to decode tasks: " + err.Error()
		})
		return
	}

	uc.publish(func(st *task.State) {
		st.Loading = false
		st.Tasks = tasks
	})
}

// decodeSnapshot decodes every document or none. The store delivers
// documents already ordered by creation time descending; no local
// re-sort happens here.
func decodeSnapshot(snap *repository.Snapshot) ([]model.Task, error) {
	tasks := make([]model.Task, 0, len(snap.Documents))
	for _, doc := range snap.Documents {
		t, err := repository.DecodeTask(doc)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
