package intent

import (
	"context"

	"github.com/skydeskhq/skydesk/logger"
	"github.com/skydeskhq/skydesk/model"
	"go.uber.org/zap"
)

// Chain tries resolvers in order and returns the first resolution. A
// resolver error (adapter down, timeout) is logged and the chain moves
// on; only when every stage comes up empty does the chain report
// ErrNoMatch.
type Chain struct {
	resolvers []Resolver
}

var _ Resolver = new(Chain)

func NewChain(resolvers ...Resolver) *Chain {
	return &Chain{resolvers: resolvers}
}

func (c *Chain) Name() string {
	return "chain"
}

func (c *Chain) Resolve(ctx context.Context, utterance string, sess *model.Session) (*Resolution, error) {
	for _, r := range c.resolvers {
		res, err := r.Resolve(ctx, utterance, sess)
		if err == ErrNoMatch {
			continue
		}
		if err != nil {
			logger.Error("intent resolver failed, trying next",
				zap.String("resolver", r.Name()), zap.Error(err))
			continue
		}
		logger.Debug("intent resolved",
			zap.String("resolver", r.Name()), zap.String("requestType", res.RequestTypeId))
		return res, nil
	}
	return nil, ErrNoMatch
}
