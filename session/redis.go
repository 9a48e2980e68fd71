package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	rd "github.com/go-redis/redis/v9"
	"github.com/google/uuid"
	"github.com/skydeskhq/skydesk/logger"
	"github.com/skydeskhq/skydesk/model"
	"github.com/skydeskhq/skydesk/util"
	"go.uber.org/zap"
)

const SESSION_KEY string = "SESSION"

type Config struct {
	Addrs     []string
	Namespace string
	// TTL evicts idle sessions; zero means no expiry.
	TTL time.Duration
}

type redisStore struct {
	redisClient rd.UniversalClient
	namespace   string
	ttl         time.Duration
	encDec      util.EncoderDecoder[model.Session]
}

var _ Store = new(redisStore)

func NewRedisStore(conf Config) *redisStore {
	redisClient := rd.NewUniversalClient(&rd.UniversalOptions{
		Addrs: conf.Addrs,
	})
	return &redisStore{
		redisClient: redisClient,
		namespace:   conf.Namespace,
		ttl:         conf.TTL,
		encDec:      util.NewJsonEncoderDecoder[model.Session](),
	}
}

func (s *redisStore) getNamespaceKey(args ...string) string {
	return fmt.Sprintf("%s:%s", s.namespace, strings.Join(args, ":"))
}

func (s *redisStore) Create(ctx context.Context) (*model.Session, error) {
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

func (s *redisStore) Get(ctx context.Context, id string) (*model.Session, error) {
	key := s.getNamespaceKey(SESSION_KEY, id)
	val, err := s.redisClient.Get(ctx, key).Result()
	if err == rd.Nil {
		return nil, SessionNotFoundError{Id: id}
	}
	if err != nil {
		logger.Error("error in getting session", zap.String("session", id), zap.Error(err))
		return nil, StorageLayerError{Message: err.Error()}
	}
	return s.encDec.Decode([]byte(val))
}

func (s *redisStore) Save(ctx context.Context, sess *model.Session) error {
	sess.UpdatedAt = time.Now().UTC()
	data, err := s.encDec.Encode(*sess)
	if err != nil {
		return err
	}
	key := s.getNamespaceKey(SESSION_KEY, sess.Id)
	if err := s.redisClient.Set(ctx, key, data, s.ttl).Err(); err != nil {
		logger.Error("error in saving session", zap.String("session", sess.Id), zap.Error(err))
		return StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.redisClient.Close()
}
