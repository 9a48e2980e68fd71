package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/skydeskhq/skydesk/airline"
	"github.com/skydeskhq/skydesk/catalog"
	"github.com/skydeskhq/skydesk/logger"
	"github.com/skydeskhq/skydesk/model"
	"github.com/skydeskhq/skydesk/policy"
	"github.com/skydeskhq/skydesk/util"
	"go.uber.org/zap"
)

const OP_GET_BOOKING string = "getBooking"
const OP_CANCEL string = "cancel"
const OP_AVAILABLE_SEATS string = "availableSeats"
const OP_FLIGHT_STATUS string = "flightStatus"

const DefaultMaxStepsPerTurn int = 20

const upstreamFailureText = "I'm having trouble reaching that service right now. Please try again in a moment."
const policyApologyText = "I'm sorry, I couldn't retrieve that policy right now. Please contact customer support for details."

type UpstreamCallFailedError struct {
	Operation string
	Err       error
}

func (e UpstreamCallFailedError) Error() string {
	return fmt.Sprintf("upstream call %s failed: %v", e.Operation, e.Err)
}

func (e UpstreamCallFailedError) Unwrap() error {
	return e.Err
}

// StepResult is what one executor turn produced: a prompt to suspend
// on, a terminal response, or a retryable upstream failure.
type StepResult struct {
	Text       string
	NeedsInput bool
	InputType  string
	Done       bool
	Retryable  bool
}

// Executor drives one session through consecutive tasks of its request
// type. Non-suspending tasks chain in a single call; the loop stops at
// the first unsatisfied customer_input, at a response task, or on
// failure. The step bound converts a misconfigured workflow into a
// definition error instead of a runaway turn.
type Executor struct {
	airlineOps airline.Operations
	policies   policy.Store
	maxSteps   int
	timeout    time.Duration
}

func New(airlineOps airline.Operations, policies policy.Store, maxSteps int, timeout time.Duration) *Executor {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxStepsPerTurn
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Executor{
		airlineOps: airlineOps,
		policies:   policies,
		maxSteps:   maxSteps,
		timeout:    timeout,
	}
}

// Run executes tasks starting at the session's current pointer. The
// session is mutated in place; persisting it is the caller's job.
func (e *Executor) Run(ctx context.Context, sess *model.Session, rt *model.RequestType) (*StepResult, error) {
	for steps := 0; ; steps++ {
		if steps >= e.maxSteps {
			return nil, catalog.InvalidWorkflowDefinitionError{
				Message: fmt.Sprintf("request type %s exceeded %d tasks in one turn", rt.Id, e.maxSteps),
			}
		}
		if sess.CurrentTask < 0 || sess.CurrentTask >= len(rt.Tasks) {
			return nil, catalog.InvalidWorkflowDefinitionError{
				Message: fmt.Sprintf("task index %d out of range for request type %s", sess.CurrentTask, rt.Id),
			}
		}
		task := rt.Tasks[sess.CurrentTask]

		var res *StepResult
		var err error
		switch task.TaskType {
		case model.TASK_TYPE_CUSTOMER_INPUT:
			res, err = e.executeCustomerInput(sess, task)
		case model.TASK_TYPE_API_CALL:
			res, err = e.executeAPICall(ctx, sess, task)
		case model.TASK_TYPE_POLICY_LOOKUP:
			res, err = e.executePolicyLookup(ctx, sess, task)
		case model.TASK_TYPE_RESPONSE:
			res, err = e.executeResponse(sess, task)
		default:
			return nil, catalog.InvalidWorkflowDefinitionError{
				Message: fmt.Sprintf("task %s has unknown type %s", task.TaskName, task.TaskType),
			}
		}
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
		sess.CurrentTask++
	}
}

// executeCustomerInput suspends until the configured field is present.
// A declined confirmation completes the session instead of advancing.
func (e *Executor) executeCustomerInput(sess *model.Session, task model.TaskDefinition) (*StepResult, error) {
	var conf model.CustomerInputConfig
	if err := task.DecodeConfiguration(&conf); err != nil {
		return nil, catalog.InvalidWorkflowDefinitionError{Message: err.Error()}
	}
	value, ok := sess.Collected[conf.Field]
	if !ok {
		sess.Status = model.SESSION_AWAITING_INPUT
		sess.PendingField = conf.Field
		sess.PendingInput = conf.InputType
		return &StepResult{
			Text:       ResolveTokens(sess.TemplateData(), conf.Prompt),
			NeedsInput: true,
			InputType:  conf.InputType,
		}, nil
	}
	if conf.InputType == model.INPUT_TYPE_CONFIRMATION && !affirmative(fmt.Sprintf("%v", value)) {
		sess.Status = model.SESSION_COMPLETED
		text := conf.DeclineText
		if len(text) == 0 {
			text = "Okay, I won't go ahead with that. Is there anything else I can help you with?"
		}
		return &StepResult{Text: text, Done: true}, nil
	}
	return nil, nil
}

func (e *Executor) executeAPICall(ctx context.Context, sess *model.Session, task model.TaskDefinition) (*StepResult, error) {
	var conf model.APICallConfig
	if err := task.DecodeConfiguration(&conf); err != nil {
		return nil, catalog.InvalidWorkflowDefinitionError{Message: err.Error()}
	}
	params := ResolveParams(sess.TemplateData(), conf.Params)

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	result, err := e.callOperation(callCtx, conf.Operation, params)
	if err != nil {
		return e.handleCallFailure(sess, conf, err)
	}

	resultMap, err := util.ToMap(result)
	if err != nil {
		return nil, err
	}
	sess.Results[conf.ResultKey] = resultMap
	return nil, nil
}

func (e *Executor) handleCallFailure(sess *model.Session, conf model.APICallConfig, err error) (*StepResult, error) {
	var cancelled airline.BookingCancelledError
	if errors.As(err, &cancelled) {
		sess.Status = model.SESSION_COMPLETED
		return &StepResult{
			Text: fmt.Sprintf("The booking with PNR %s has already been cancelled. "+
				"If you have any questions about this cancellation or need to make a new booking, please let me know!", cancelled.PNR),
			Done: true,
		}, nil
	}

	var notFound airline.NotFoundError
	if errors.As(err, &notFound) && len(conf.RetryField) > 0 {
		prompt := ResolveTokens(sess.TemplateData(), conf.RetryPrompt)
		delete(sess.Collected, conf.RetryField)
		sess.Status = model.SESSION_AWAITING_INPUT
		sess.PendingField = conf.RetryField
		sess.PendingInput = conf.RetryInput
		return &StepResult{Text: prompt, NeedsInput: true, InputType: conf.RetryInput}, nil
	}

	// Retryable: session stays active at the same task index so the
	// customer can simply try again.
	logger.Error("upstream call failed",
		zap.String("operation", conf.Operation), zap.String("session", sess.Id), zap.Error(err))
	text := conf.FailureText
	if len(text) == 0 {
		text = upstreamFailureText
	}
	return &StepResult{Text: text, Retryable: true}, nil
}

func (e *Executor) callOperation(ctx context.Context, operation string, params map[string]any) (any, error) {
	switch operation {
	case OP_GET_BOOKING:
		return e.airlineOps.GetBooking(ctx, stringParam(params, "pnr"))
	case OP_CANCEL:
		return e.airlineOps.Cancel(ctx, stringParam(params, "pnr"), stringParam(params, "reason"))
	case OP_AVAILABLE_SEATS:
		return e.airlineOps.AvailableSeats(ctx, stringParam(params, "query"))
	case OP_FLIGHT_STATUS:
		return e.airlineOps.FlightStatus(ctx, stringParam(params, "pnr"))
	default:
		return nil, catalog.InvalidWorkflowDefinitionError{
			Message: fmt.Sprintf("unknown operation %s", operation),
		}
	}
}

// executePolicyLookup degrades to an apology text on any failure; the
// workflow still advances so the response task can render.
func (e *Executor) executePolicyLookup(ctx context.Context, sess *model.Session, task model.TaskDefinition) (*StepResult, error) {
	var conf model.PolicyLookupConfig
	if err := task.DecodeConfiguration(&conf); err != nil {
		return nil, catalog.InvalidWorkflowDefinitionError{Message: err.Error()}
	}
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	text := policyApologyText
	doc, err := e.policies.Lookup(callCtx, conf.PolicyType)
	if err != nil {
		logger.Error("policy lookup failed",
			zap.String("policyType", conf.PolicyType), zap.String("session", sess.Id), zap.Error(err))
	} else {
		text = doc.Text()
	}
	sess.Results[conf.ResultKey] = map[string]any{"text": text}
	return nil, nil
}

func (e *Executor) executeResponse(sess *model.Session, task model.TaskDefinition) (*StepResult, error) {
	var conf model.ResponseConfig
	if err := task.DecodeConfiguration(&conf); err != nil {
		return nil, catalog.InvalidWorkflowDefinitionError{Message: err.Error()}
	}
	sess.Status = model.SESSION_COMPLETED
	return &StepResult{
		Text: ResolveTokens(sess.TemplateData(), conf.Template),
		Done: true,
	}, nil
}

func affirmative(value string) bool {
	v := strings.ToLower(value)
	return strings.Contains(v, "yes") || strings.Contains(v, "confirm")
}

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}
