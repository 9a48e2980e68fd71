package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/skydeskhq/skydesk/model"
)

type InvalidWorkflowDefinitionError struct {
	Message string
}

func (e InvalidWorkflowDefinitionError) Error() string {
	return fmt.Sprintf("invalid request type definition: %s", e.Message)
}

type RequestTypeNotFoundError struct {
	Id string
}

func (e RequestTypeNotFoundError) Error() string {
	return fmt.Sprintf("request type %s not found", e.Id)
}

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

type Storage interface {
	SaveRequestType(rt model.RequestType) error
	DeleteRequestType(id string) error
	GetRequestType(id string) (*model.RequestType, error)
	ListRequestTypes() ([]model.RequestType, error)
}

type inMemoryStorage struct {
	mu    sync.RWMutex
	types map[string]model.RequestType
}

var _ Storage = new(inMemoryStorage)

func NewInMemoryStorage() *inMemoryStorage {
	return &inMemoryStorage{
		types: make(map[string]model.RequestType),
	}
}

func (s *inMemoryStorage) SaveRequestType(rt model.RequestType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[rt.Id] = rt
	return nil
}

func (s *inMemoryStorage) DeleteRequestType(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.types, id)
	return nil
}

func (s *inMemoryStorage) GetRequestType(id string) (*model.RequestType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rt, ok := s.types[id]
	if !ok {
		return nil, RequestTypeNotFoundError{Id: id}
	}
	return &rt, nil
}

func (s *inMemoryStorage) ListRequestTypes() ([]model.RequestType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.RequestType, 0, len(s.types))
	for _, rt := range s.types {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}
