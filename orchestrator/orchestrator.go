package orchestrator

import (
	"context"
	"strings"

	"github.com/skydeskhq/skydesk/catalog"
	"github.com/skydeskhq/skydesk/executor"
	"github.com/skydeskhq/skydesk/intent"
	"github.com/skydeskhq/skydesk/logger"
	"github.com/skydeskhq/skydesk/model"
	"github.com/skydeskhq/skydesk/session"
	"go.uber.org/zap"
)

const clarificationText = "I'm sorry, I didn't quite get that. I can help you cancel a trip, " +
	"check your flight status, look up seat availability, or answer questions about our " +
	"cancellation, baggage and pet travel policies. Could you tell me more about what you need?"

const apologyText = "I'm having trouble processing your request. Please try again."

type QueryResult struct {
	SessionId  string `json:"session_id"`
	Text       string `json:"response"`
	NeedsInput bool   `json:"needs_input"`
	InputType  string `json:"input_type,omitempty"`
}

// Orchestrator owns the per-session state machine. It is the only
// component that mutates sessions; turns for one session are serialized
// through the key lock.
type Orchestrator struct {
	store    session.Store
	catalog  *catalog.Service
	intents  intent.Resolver
	executor *executor.Executor
	locks    *session.KeyLock
}

func New(store session.Store, cat *catalog.Service, intents intent.Resolver, exec *executor.Executor) *Orchestrator {
	return &Orchestrator{
		store:    store,
		catalog:  cat,
		intents:  intents,
		executor: exec,
		locks:    session.NewKeyLock(),
	}
}

// SubmitQuery handles one inbound customer message, creating a session
// when no id is supplied.
func (o *Orchestrator) SubmitQuery(ctx context.Context, text string, sessionId string) (*QueryResult, error) {
	var sess *model.Session
	var err error
	if len(sessionId) > 0 {
		o.locks.Lock(sessionId)
		defer o.locks.Unlock(sessionId)
		sess, err = o.store.Get(ctx, sessionId)
	} else {
		sess, err = o.store.Create(ctx)
		if err == nil {
			o.locks.Lock(sess.Id)
			defer o.locks.Unlock(sess.Id)
		}
	}
	if err != nil {
		return nil, err
	}
	return o.processTurn(ctx, sess, text)
}

// SubmitInput supplies the value a suspended session is waiting for.
// On a session that is not awaiting input it behaves like SubmitQuery.
func (o *Orchestrator) SubmitInput(ctx context.Context, sessionId string, value string) (*QueryResult, error) {
	o.locks.Lock(sessionId)
	defer o.locks.Unlock(sessionId)
	sess, err := o.store.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return o.processTurn(ctx, sess, value)
}

func (o *Orchestrator) History(ctx context.Context, sessionId string) ([]model.Message, error) {
	sess, err := o.store.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	history := make([]model.Message, len(sess.History))
	copy(history, sess.History)
	return history, nil
}

func (o *Orchestrator) processTurn(ctx context.Context, sess *model.Session, text string) (*QueryResult, error) {
	sess.Append(model.SENDER_USER, text, false, "")

	switch sess.Status {
	case model.SESSION_AWAITING_INPUT:
		sess.Collected[sess.PendingField] = strings.TrimSpace(text)
		sess.PendingField = ""
		sess.PendingInput = ""
		sess.Status = model.SESSION_ACTIVE
		return o.execute(ctx, sess)
	case model.SESSION_COMPLETED, model.SESSION_FAILED:
		if intent.IsSimpleReply(text) {
			return o.respond(ctx, sess, &executor.StepResult{Text: courtesyReply(text), Done: true})
		}
		return o.startWorkflow(ctx, sess, text)
	default:
		// Active with a bound request type means the last turn hit a
		// retryable failure; run the same task again. Otherwise this is
		// the clarification loop and we re-resolve.
		if len(sess.RequestTypeId) > 0 {
			return o.execute(ctx, sess)
		}
		return o.startWorkflow(ctx, sess, text)
	}
}

func (o *Orchestrator) startWorkflow(ctx context.Context, sess *model.Session, text string) (*QueryResult, error) {
	res, err := o.intents.Resolve(ctx, text, sess)
	if err != nil {
		if err != intent.ErrNoMatch {
			logger.Error("intent resolution failed", zap.String("session", sess.Id), zap.Error(err))
		}
		// Status is untouched: a completed session stays completed, a
		// fresh one keeps waiting for a request it can route.
		return o.respond(ctx, sess, &executor.StepResult{Text: clarificationText})
	}

	sess.RequestTypeId = res.RequestTypeId
	sess.CurrentTask = 0
	sess.Collected = make(map[string]any)
	sess.Results = make(map[string]any)
	sess.PendingField = ""
	sess.PendingInput = ""
	sess.Status = model.SESSION_ACTIVE
	for k, v := range res.Entities {
		sess.Collected[k] = v
	}
	return o.execute(ctx, sess)
}

func (o *Orchestrator) execute(ctx context.Context, sess *model.Session) (*QueryResult, error) {
	rt, err := o.catalog.Get(sess.RequestTypeId)
	if err != nil {
		logger.Error("request type lookup failed",
			zap.String("session", sess.Id), zap.String("requestType", sess.RequestTypeId), zap.Error(err))
		sess.Status = model.SESSION_FAILED
		return o.respond(ctx, sess, &executor.StepResult{Text: apologyText})
	}

	step, err := o.executor.Run(ctx, sess, rt)
	if err != nil {
		logger.Error("task execution failed",
			zap.String("session", sess.Id), zap.String("requestType", rt.Id), zap.Error(err))
		sess.Status = model.SESSION_FAILED
		return o.respond(ctx, sess, &executor.StepResult{Text: apologyText})
	}
	return o.respond(ctx, sess, step)
}

func (o *Orchestrator) respond(ctx context.Context, sess *model.Session, step *executor.StepResult) (*QueryResult, error) {
	sess.Append(model.SENDER_SYSTEM, step.Text, step.NeedsInput, step.InputType)
	if err := o.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &QueryResult{
		SessionId:  sess.Id,
		Text:       step.Text,
		NeedsInput: step.NeedsInput,
		InputType:  step.InputType,
	}, nil
}

func courtesyReply(text string) string {
	reply := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.Contains(reply, "thank"):
		return "You're welcome! I'm glad I could help. Is there anything else you need assistance with?"
	case strings.Contains(reply, "bye"):
		return "Goodbye! Have a great day and safe travels!"
	case reply == "no" || reply == "nope" || reply == "nah" || reply == "nothing" || reply == "no thanks":
		return "Perfect! Thank you for contacting us. If you need anything in the future, we're here to help. Have a wonderful day and safe travels!"
	default:
		return "Great! If you need any further assistance, feel free to ask."
	}
}
