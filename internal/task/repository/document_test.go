package repository_test

import (
	"encoding/json"
	"testing"
	"time"

	"taskdeck/internal/model"
	"taskdeck/internal/task/repository"
)

func TestDecodeTaskStrictness(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"type mismatch", `{"title":123,"ownerId":"u1","createdAt":"2025-01-01T00:00:00Z"}`},
		{"missing owner", `{"title":"A","createdAt":"2025-01-01T00:00:00Z"}`},
		{"missing createdAt", `{"title":"A","ownerId":"u1"}`},
		{"not an object", `[1,2,3]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repository.DecodeTask(repository.Document{ID: "t1", Data: json.RawMessage(tc.data)})
			if err == nil {
				t.Fatal("expected decode error")
			}
		})
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	orig := model.Task{
		ID:          "t1",
		Title:       "A",
		Description: "desc",
		IsCompleted: true,
		CreatedAt:   time.Unix(1000, 0).UTC(),
		OwnerID:     "u1",
	}

	raw, err := json.Marshal(repository.DocumentFromTask(orig))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := repository.DecodeTask(repository.Document{ID: "t1", Data: raw})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != orig {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, orig)
	}
}
