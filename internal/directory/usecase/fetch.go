package usecase

import (
	"context"
	"errors"

	"taskdeck/internal/directory"
	"taskdeck/internal/directory/repository"
)

// FetchUsers performs one directory fetch. On success Users is
// replaced wholesale; on any failure the previous result stays and
// only the error message changes. Two overlapping fetches race and
// the last completion wins; there is deliberately no request
// sequencing or cancellation of the superseded call.
func (uc *implUseCase) FetchUsers(ctx context.Context) {
	uc.publish(func(st *directory.State) {
		st.Loading = true
		st.ErrorMessage = ""
	})

	go func() {
		users, err := uc.client.FetchUsers(ctx)

		uc.publish(func(st *directory.State) {
			st.Loading = false
			if err != nil {
				uc.l.Errorf(ctx, "directory: fetch failed: %v", err)
				if errors.Is(err, repository.ErrDecode) {
					st.ErrorMessage = "failed to decode users: " + err.Error()
				} else {
					st.ErrorMessage = "failed to load users: " + err.Error()
				}
				return
			}
			st.Users = users
		})
	}()
}
