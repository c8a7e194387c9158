package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"taskdeck/internal/directory"
	"taskdeck/internal/directory/repository"
	"taskdeck/internal/directory/usecase"
	"taskdeck/internal/model"
	"taskdeck/internal/uiloop"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

type mockClient struct {
	users []model.User
	err   error
}

func (m *mockClient) FetchUsers(ctx context.Context) ([]model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users, nil
}

func newService(t *testing.T, client repository.Client) (directory.UseCase, chan directory.State, func()) {
	t.Helper()
	loop := uiloop.New()
	go loop.Run()

	uc := usecase.New(&mockLogger{}, client, loop)
	states := make(chan directory.State, 64)
	uc.Observe(func(s directory.State) { states <- s })

	return uc, states, loop.Stop
}

func waitState(t *testing.T, states chan directory.State, cond func(directory.State) bool) directory.State {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case s := <-states:
			if cond(s) {
				return s
			}
		case <-deadline:
			t.Fatal("timed out waiting for state")
		}
	}
}

func TestFetchUsersReplacesStateWholesale(t *testing.T) {
	want := []model.User{
		{ID: 1, Name: "Leanne Graham", Username: "Bret"},
		{ID: 2, Name: "Ervin Howell", Username: "Antonette"},
	}
	uc, states, stop := newService(t, &mockClient{users: want})
	defer stop()

	uc.FetchUsers(context.Background())

	loading := waitState(t, states, func(s directory.State) bool { return s.Loading })
	if loading.ErrorMessage != "" {
		t.Fatalf("loading state carries stale error: %q", loading.ErrorMessage)
	}

	s := waitState(t, states, func(s directory.State) bool { return !s.Loading })
	if len(s.Users) != 2 || s.Users[0].ID != 1 || s.Users[1].ID != 2 {
		t.Fatalf("users not replaced in order: %+v", s.Users)
	}
	if s.ErrorMessage != "" {
		t.Fatalf("unexpected error: %q", s.ErrorMessage)
	}
}

func TestFetchUsersDecodeErrorKeepsPreviousUsers(t *testing.T) {
	client := &mockClient{users: []model.User{{ID: 1, Name: "Leanne Graham"}}}
	uc, states, stop := newService(t, client)
	defer stop()

	uc.FetchUsers(context.Background())
	waitState(t, states, func(s directory.State) bool { return !s.Loading && len(s.Users) == 1 })

	client.err = fmt.Errorf("%w: unexpected shape", repository.ErrDecode)
	uc.FetchUsers(context.Background())

	s := waitState(t, states, func(s directory.State) bool {
		return !s.Loading && s.ErrorMessage != ""
	})
	if !strings.Contains(s.ErrorMessage, "failed to decode users") {
		t.Fatalf("unexpected error message: %q", s.ErrorMessage)
	}
	if len(s.Users) != 1 {
		t.Fatalf("previous users not preserved: %+v", s.Users)
	}
}

func TestFetchUsersNetworkError(t *testing.T) {
	uc, states, stop := newService(t, &mockClient{err: errors.New("connection refused")})
	defer stop()

	uc.FetchUsers(context.Background())

	s := waitState(t, states, func(s directory.State) bool {
		return !s.Loading && s.ErrorMessage != ""
	})
	if !strings.Contains(s.ErrorMessage, "failed to load users") {
		t.Fatalf("unexpected error message: %q", s.ErrorMessage)
	}
	if len(s.Users) != 0 {
		t.Fatalf("users should stay empty: %+v", s.Users)
	}
}

func TestFetchUsersRetryAfterErrorClearsMessage(t *testing.T) {
	client := &mockClient{err: errors.New("connection refused")}
	uc, states, stop := newService(t, client)
	defer stop()

	uc.FetchUsers(context.Background())
	waitState(t, states, func(s directory.State) bool { return !s.Loading && s.ErrorMessage != "" })

	client.err = nil
	client.users = []model.User{{ID: 1}}
	uc.FetchUsers(context.Background())

	s := waitState(t, states, func(s directory.State) bool { return !s.Loading && len(s.Users) == 1 })
	if s.ErrorMessage != "" {
		t.Fatalf("retry did not clear error: %q", s.ErrorMessage)
	}
}
