package policy

import (
	"context"
	"fmt"
	"strings"

	rd "github.com/go-redis/redis/v9"
	"github.com/skydeskhq/skydesk/logger"
	"github.com/skydeskhq/skydesk/util"
	"go.uber.org/zap"
)

const POLICY_DOC string = "POLICY"

type Config struct {
	Addrs     []string
	Namespace string
}

type redisStore struct {
	redisClient rd.UniversalClient
	namespace   string
	encDec      util.EncoderDecoder[Document]
}

var _ Store = new(redisStore)

func NewRedisStore(conf Config) *redisStore {
	redisClient := rd.NewUniversalClient(&rd.UniversalOptions{
		Addrs: conf.Addrs,
	})
	return &redisStore{
		redisClient: redisClient,
		namespace:   conf.Namespace,
		encDec:      util.NewJsonEncoderDecoder[Document](),
	}
}

func (s *redisStore) getNamespaceKey(args ...string) string {
	return fmt.Sprintf("%s:%s", s.namespace, strings.Join(args, ":"))
}

func (s *redisStore) Lookup(ctx context.Context, policyType string) (*Document, error) {
	key := s.getNamespaceKey(POLICY_DOC)
	val, err := s.redisClient.HGet(ctx, key, policyType).Result()
	if err == rd.Nil {
		return nil, PolicyNotFoundError{PolicyType: policyType}
	}
	if err != nil {
		logger.Error("error in getting policy", zap.String("policyType", policyType), zap.Error(err))
		return nil, StorageLayerError{Message: err.Error()}
	}
	return s.encDec.Decode([]byte(val))
}

func (s *redisStore) Save(ctx context.Context, doc Document) error {
	data, err := s.encDec.Encode(doc)
	if err != nil {
		return err
	}
	key := s.getNamespaceKey(POLICY_DOC)
	if err := s.redisClient.HSet(ctx, key, []string{doc.PolicyType, string(data)}).Err(); err != nil {
		logger.Error("error in saving policy", zap.String("policyType", doc.PolicyType), zap.Error(err))
		return StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.redisClient.Close()
}
