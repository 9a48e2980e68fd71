package session

import (
	"context"
	"fmt"

	"github.com/skydeskhq/skydesk/model"
)

type SessionNotFoundError struct {
	Id string
}

func (e SessionNotFoundError) Error() string {
	return fmt.Sprintf("session %s not found", e.Id)
}

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

// Store persists session snapshots. Save replaces the whole snapshot for
// an id; callers serialize turns per session through KeyLock, the store
// itself is not responsible for turn ordering.
type Store interface {
	Create(ctx context.Context) (*model.Session, error)
	Get(ctx context.Context, id string) (*model.Session, error)
	Save(ctx context.Context, sess *model.Session) error
}
