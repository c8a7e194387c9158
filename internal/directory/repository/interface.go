package repository

import (
	"context"

	"taskdeck/internal/model"
)

// Client fetches the full user directory from the remote REST
// endpoint. One call, one decoded result; no paging, no caching.
type Client interface {
	FetchUsers(ctx context.Context) ([]model.User, error)
}
