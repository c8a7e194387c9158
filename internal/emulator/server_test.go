package emulator_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"taskdeck/internal/emulator"
	"taskdeck/internal/model"
	"taskdeck/internal/session/identity"
	"taskdeck/internal/task/repository"
	"taskdeck/internal/task/repository/docstore"
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

func newEmulator(t *testing.T, cfg emulator.Config) *httptest.Server {
	t.Helper()
	if cfg.Port == 0 {
		cfg.Port = 8090
	}
	if cfg.Mode == "" {
		cfg.Mode = gin.TestMode
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "emulator-test-secret"
	}
	srv, err := emulator.New(&mockLogger{}, cfg)
	if err != nil {
		t.Fatalf("emulator.New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func signUp(t *testing.T, baseURL, email string) *identity.Client {
	t.Helper()
	client := identity.New(&mockLogger{}, identity.Config{BaseURL: baseURL})
	if _, err := client.SignUp(context.Background(), email, "hunter22"); err != nil {
		t.Fatalf("SignUp(%s): %v", email, err)
	}
	return client
}

func taskStore(t *testing.T, ctx context.Context, baseURL string, id *identity.Client) *docstore.Client {
	t.Helper()
	return docstore.New(&mockLogger{}, docstore.Config{
		BaseURL:      baseURL,
		Collection:   "tasks",
		TokenSource:  id.TokenSource(ctx),
		WatchTimeout: time.Second,
		PollInterval: 10 * time.Millisecond,
	})
}

func nextSnapshot(t *testing.T, events <-chan repository.Event) *repository.Snapshot {
	t.Helper()
	select {
	case ev, ok := <-events:
		if !ok {
			t.Fatal("watch channel closed")
		}
		if ev.Err != nil {
			t.Fatalf("watch error: %v", ev.Err)
		}
		return ev.Snapshot
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return nil
}

func TestEndToEndTaskFlow(t *testing.T) {
	ts := newEmulator(t, emulator.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id := signUp(t, ts.URL, "ada@example.com")
	session, _ := id.Current()
	store := taskStore(t, ctx, ts.URL, id)

	events, err := store.Watch(ctx, repository.WatchOptions{OwnerID: session.UserID})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if snap := nextSnapshot(t, events); len(snap.Documents) != 0 {
		t.Fatalf("expected empty first snapshot, got %d documents", len(snap.Documents))
	}

	task := model.Task{
		Title:     "Buy milk",
		CreatedAt: time.Now().UTC(),
		OwnerID:   session.UserID,
	}
	taskID, err := store.Add(ctx, repository.DocumentFromTask(task))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if taskID == "" {
		t.Fatal("server assigned no id")
	}

	snap := nextSnapshot(t, events)
	if len(snap.Documents) != 1 || snap.Documents[0].ID != taskID {
		t.Fatalf("unexpected snapshot after add: %+v", snap.Documents)
	}
	got, err := repository.DecodeTask(snap.Documents[0])
	if err != nil {
		t.Fatalf("DecodeTask: %v", err)
	}
	if got.Title != "Buy milk" || got.OwnerID != session.UserID {
		t.Fatalf("unexpected task: %+v", got)
	}

	task.ID = taskID
	task.IsCompleted = true
	if err := store.Set(ctx, taskID, repository.DocumentFromTask(task)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	snap = nextSnapshot(t, events)
	got, err = repository.DecodeTask(snap.Documents[0])
	if err != nil {
		t.Fatalf("DecodeTask after set: %v", err)
	}
	if !got.IsCompleted {
		t.Fatal("update did not round-trip")
	}

	if err := store.Delete(ctx, taskID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if snap = nextSnapshot(t, events); len(snap.Documents) != 0 {
		t.Fatalf("expected empty snapshot after delete, got %d", len(snap.Documents))
	}
}

func TestRejectsUnauthenticatedWrites(t *testing.T) {
	ts := newEmulator(t, emulator.Config{})

	resp, err := http.Post(ts.URL+"/v1/collections/tasks/documents", "application/json",
		strings.NewReader(`{"title":"x","ownerId":"u1","createdAt":"2026-08-01T00:00:00Z"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCrossOwnerAccessIsForbidden(t *testing.T) {
	ts := newEmulator(t, emulator.Config{})
	ctx := context.Background()

	ada := signUp(t, ts.URL, "ada@example.com")
	eve := signUp(t, ts.URL, "eve@example.com")
	adaSession, _ := ada.Current()

	adaStore := taskStore(t, ctx, ts.URL, ada)
	taskID, err := adaStore.Add(ctx, repository.DocumentFromTask(model.Task{
		Title:     "private",
		CreatedAt: time.Now().UTC(),
		OwnerID:   adaSession.UserID,
	}))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	eveStore := taskStore(t, ctx, ts.URL, eve)
	if err := eveStore.Delete(ctx, taskID); err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 deleting another owner's task, got %v", err)
	}

	// Watching someone else's scope is rejected outright.
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	events, err := eveStore.Watch(watchCtx, repository.WatchOptions{OwnerID: adaSession.UserID})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	select {
	case ev := <-events:
		if ev.Err == nil || !strings.Contains(ev.Err.Error(), "403") {
			t.Fatalf("expected 403 watch event, got %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch rejection")
	}
}

func TestSignInRejectsWrongPassword(t *testing.T) {
	ts := newEmulator(t, emulator.Config{})
	ctx := context.Background()

	signUp(t, ts.URL, "ada@example.com")

	client := identity.New(&mockLogger{}, identity.Config{BaseURL: ts.URL})
	if _, err := client.SignIn(ctx, "ada@example.com", "wrong-pass"); err == nil {
		t.Fatal("expected sign-in to fail with the wrong password")
	}
	if _, err := client.SignIn(ctx, "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("sign-in with the right password failed: %v", err)
	}
}

func TestRateLimitKicksIn(t *testing.T) {
	ts := newEmulator(t, emulator.Config{RateLimitPerMin: 60})

	limited := false
	for i := 0; i < 30; i++ {
		resp, err := http.Get(ts.URL + "/health")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Fatal("rate limiter never rejected a burst of requests")
	}
}
