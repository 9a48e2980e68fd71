package agent

import (
	"context"
	"os"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/skydeskhq/skydesk/airline"
	"github.com/skydeskhq/skydesk/catalog"
	"github.com/skydeskhq/skydesk/config"
	"github.com/skydeskhq/skydesk/executor"
	"github.com/skydeskhq/skydesk/intent"
	"github.com/skydeskhq/skydesk/logger"
	"github.com/skydeskhq/skydesk/orchestrator"
	"github.com/skydeskhq/skydesk/policy"
	"github.com/skydeskhq/skydesk/rest"
	"github.com/skydeskhq/skydesk/session"
)

// Agent wires the orchestration core to its collaborators and owns
// their lifecycle.
type Agent struct {
	Config config.Config

	sessionStore session.Store
	catalog      *catalog.Service
	policies     policy.Store
	airlineOps   *airline.Service
	intents      intent.Resolver
	executor     *executor.Executor
	orchestrator *orchestrator.Orchestrator
	httpServer   *rest.Server

	closers      []func() error
	shutdown     bool
	shutdownLock sync.Mutex
}

func New(conf config.Config) (*Agent, error) {
	a := &Agent{
		Config: conf,
	}
	setup := []func() error{
		a.setupSessionStore,
		a.setupCatalog,
		a.setupPolicyStore,
		a.setupAirlineService,
		a.setupIntentChain,
		a.setupOrchestrator,
		a.setupHttpServer,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupSessionStore() error {
	if a.Config.StorageType == config.STORAGE_TYPE_REDIS {
		store := session.NewRedisStore(session.Config{
			Addrs:     a.Config.RedisConfig.Addrs,
			Namespace: a.Config.RedisConfig.Namespace,
			TTL:       a.Config.SessionTTL,
		})
		a.closers = append(a.closers, store.Close)
		a.sessionStore = store
		return nil
	}
	a.sessionStore = session.NewInMemoryStore()
	return nil
}

func (a *Agent) setupCatalog() error {
	var storage catalog.Storage
	if a.Config.StorageType == config.STORAGE_TYPE_REDIS {
		redisStorage := catalog.NewRedisStorage(catalog.Config{
			Addrs:     a.Config.RedisConfig.Addrs,
			Namespace: a.Config.RedisConfig.Namespace,
		})
		a.closers = append(a.closers, redisStorage.Close)
		storage = redisStorage
	} else {
		storage = catalog.NewInMemoryStorage()
	}
	a.catalog = catalog.NewService(storage)
	return catalog.Seed(a.catalog)
}

func (a *Agent) setupPolicyStore() error {
	if a.Config.StorageType == config.STORAGE_TYPE_REDIS {
		store := policy.NewRedisStore(policy.Config{
			Addrs:     a.Config.RedisConfig.Addrs,
			Namespace: a.Config.RedisConfig.Namespace,
		})
		a.closers = append(a.closers, store.Close)
		a.policies = store
	} else {
		a.policies = policy.NewInMemoryStore()
	}
	return policy.SeedDefaults(context.Background(), a.policies)
}

func (a *Agent) setupAirlineService() error {
	svc, err := airline.Open(a.Config.SqlitePath)
	if err != nil {
		return err
	}
	if err := svc.Migrate(); err != nil {
		svc.Close()
		return err
	}
	if err := svc.Seed(); err != nil {
		svc.Close()
		return err
	}
	a.closers = append(a.closers, svc.Close)
	a.airlineOps = svc
	return nil
}

func (a *Agent) setupIntentChain() error {
	resolvers := []intent.Resolver{}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); len(apiKey) > 0 {
		resolvers = append(resolvers, intent.NewClaudeResolver(intent.ClaudeResolverConfig{
			APIKey:  apiKey,
			Model:   anthropic.Model(a.Config.IntentModel),
			Timeout: a.Config.CollaboratorTimeout,
		}, a.catalog))
	} else {
		logger.Info("ANTHROPIC_API_KEY not set, using keyword intent resolution only")
	}
	resolvers = append(resolvers, intent.NewKeywordResolver())
	a.intents = intent.NewChain(resolvers...)
	return nil
}

func (a *Agent) setupOrchestrator() error {
	a.executor = executor.New(a.airlineOps, a.policies, a.Config.MaxStepsPerTurn, a.Config.CollaboratorTimeout)
	a.orchestrator = orchestrator.New(a.sessionStore, a.catalog, a.intents, a.executor)
	return nil
}

func (a *Agent) setupHttpServer() error {
	var err error
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, a.orchestrator, a.catalog)
	return err
}

func (a *Agent) Start() error {
	go func() {
		if err := a.httpServer.Start(); err != nil {
			_ = a.Shutdown()
		}
	}()
	return nil
}

func (a *Agent) Shutdown() error {
	logger.Info("shutting down server")
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true

	if err := a.httpServer.Stop(); err != nil {
		return err
	}
	for _, fn := range a.closers {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
