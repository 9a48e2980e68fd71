package catalog

import (
	"context"
	"fmt"
	"strings"

	rd "github.com/go-redis/redis/v9"
	"github.com/skydeskhq/skydesk/logger"
	"github.com/skydeskhq/skydesk/model"
	"github.com/skydeskhq/skydesk/util"
	"go.uber.org/zap"
)

const REQUEST_TYPE_DEF string = "REQUEST_TYPE"

type Config struct {
	Addrs     []string
	Namespace string
}

type redisStorage struct {
	redisClient rd.UniversalClient
	namespace   string
	encDec      util.EncoderDecoder[model.RequestType]
}

var _ Storage = new(redisStorage)

func NewRedisStorage(conf Config) *redisStorage {
	redisClient := rd.NewUniversalClient(&rd.UniversalOptions{
		Addrs: conf.Addrs,
	})
	return &redisStorage{
		redisClient: redisClient,
		namespace:   conf.Namespace,
		encDec:      util.NewJsonEncoderDecoder[model.RequestType](),
	}
}

func (s *redisStorage) getNamespaceKey(args ...string) string {
	return fmt.Sprintf("%s:%s", s.namespace, strings.Join(args, ":"))
}

func (s *redisStorage) SaveRequestType(rt model.RequestType) error {
	data, err := s.encDec.Encode(rt)
	if err != nil {
		return err
	}
	key := s.getNamespaceKey(REQUEST_TYPE_DEF)
	ctx := context.Background()
	if err := s.redisClient.HSet(ctx, key, []string{rt.Id, string(data)}).Err(); err != nil {
		logger.Error("error in saving request type", zap.String("requestType", rt.Id), zap.Error(err))
		return StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (s *redisStorage) DeleteRequestType(id string) error {
	key := s.getNamespaceKey(REQUEST_TYPE_DEF)
	ctx := context.Background()
	if err := s.redisClient.HDel(ctx, key, id).Err(); err != nil {
		logger.Error("error in deleting request type", zap.String("requestType", id), zap.Error(err))
		return StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (s *redisStorage) GetRequestType(id string) (*model.RequestType, error) {
	key := s.getNamespaceKey(REQUEST_TYPE_DEF)
	ctx := context.Background()
	val, err := s.redisClient.HGet(ctx, key, id).Result()
	if err == rd.Nil {
		return nil, RequestTypeNotFoundError{Id: id}
	}
	if err != nil {
		logger.Error("error in getting request type", zap.String("requestType", id), zap.Error(err))
		return nil, StorageLayerError{Message: err.Error()}
	}
	return s.encDec.Decode([]byte(val))
}

func (s *redisStorage) ListRequestTypes() ([]model.RequestType, error) {
	key := s.getNamespaceKey(REQUEST_TYPE_DEF)
	ctx := context.Background()
	vals, err := s.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		logger.Error("error in listing request types", zap.Error(err))
		return nil, StorageLayerError{Message: err.Error()}
	}
	out := make([]model.RequestType, 0, len(vals))
	for _, val := range vals {
		rt, err := s.encDec.Decode([]byte(val))
		if err != nil {
			return nil, err
		}
		out = append(out, *rt)
	}
	return out, nil
}

func (s *redisStorage) Close() error {
	return s.redisClient.Close()
}
