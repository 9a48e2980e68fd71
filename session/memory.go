package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/skydeskhq/skydesk/model"
	"github.com/skydeskhq/skydesk/util"
)

type inMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
	encDec   util.EncoderDecoder[model.Session]
}

var _ Store = new(inMemoryStore)

func NewInMemoryStore() *inMemoryStore {
	return &inMemoryStore{
		sessions: make(map[string][]byte),
		encDec:   util.NewJsonEncoderDecoder[model.Session](),
	}
}

func (s *inMemoryStore) Create(ctx context.Context) (*model.Session, error) {
	now := time.Now().UTC()
	sess := &model.Session{
		Id:        uuid.New().String(),
		Status:    model.SESSION_ACTIVE,
		Collected: make(map[string]any),
		Results:   make(map[string]any),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *inMemoryStore) Get(ctx context.Context, id string) (*model.Session, error) {
	s.mu.RLock()
	data, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, SessionNotFoundError{Id: id}
	}
	return s.encDec.Decode(data)
}

func (s *inMemoryStore) Save(ctx context.Context, sess *model.Session) error {
	sess.UpdatedAt = time.Now().UTC()
	data, err := s.encDec.Encode(*sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[sess.Id] = data
	s.mu.Unlock()
	return nil
}
