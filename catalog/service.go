package catalog

import (
	"time"

	c "github.com/patrickmn/go-cache"
	"github.com/skydeskhq/skydesk/model"
)

const activeListKey string = "__active"

// Service fronts the request type storage with validation and a
// read-through cache. Definitions change rarely; execution reads them on
// every turn.
type Service struct {
	storage Storage
	cache   *c.Cache
}

func NewService(storage Storage) *Service {
	return &Service{
		storage: storage,
		cache:   c.New(1*time.Minute, 10*time.Minute),
	}
}

func (s *Service) Save(rt model.RequestType) error {
	if err := Validate(rt); err != nil {
		return err
	}
	if err := s.storage.SaveRequestType(rt); err != nil {
		return err
	}
	s.cache.Delete(rt.Id)
	s.cache.Delete(activeListKey)
	return nil
}

func (s *Service) Delete(id string) error {
	if err := s.storage.DeleteRequestType(id); err != nil {
		return err
	}
	s.cache.Delete(id)
	s.cache.Delete(activeListKey)
	return nil
}

func (s *Service) Get(id string) (*model.RequestType, error) {
	if cached, found := s.cache.Get(id); found {
		rt := cached.(model.RequestType)
		return &rt, nil
	}
	rt, err := s.storage.GetRequestType(id)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(id, *rt)
	return rt, nil
}

func (s *Service) GetActive() ([]model.RequestType, error) {
	if cached, found := s.cache.Get(activeListKey); found {
		return cached.([]model.RequestType), nil
	}
	types, err := s.storage.ListRequestTypes()
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(activeListKey, types)
	return types, nil
}
