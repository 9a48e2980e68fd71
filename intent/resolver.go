package intent

import (
	"context"
	"errors"

	"github.com/skydeskhq/skydesk/model"
)

// ErrNoMatch means the resolver could not map the utterance to any
// request type. It is a control-flow signal, not a failure.
var ErrNoMatch = errors.New("no matching request type")

type Resolution struct {
	RequestTypeId string
	// Entities are values captured inline from the utterance, merged
	// into the session's collected inputs (e.g. a PNR mentioned in the
	// first message).
	Entities map[string]string
}

type Resolver interface {
	Name() string
	Resolve(ctx context.Context, utterance string, sess *model.Session) (*Resolution, error)
}
