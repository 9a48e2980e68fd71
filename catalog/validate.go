package catalog

import (
	"fmt"

	"github.com/skydeskhq/skydesk/model"
)

// Validate checks a request type definition before it is accepted into
// the catalog. Execution order must be a contiguous 1..N sequence
// matching list position, every task type must be known, and each
// type-specific configuration must decode with its required fields set.
// The final task must be a response so every workflow terminates.
func Validate(rt model.RequestType) error {
	if len(rt.Id) == 0 {
		return InvalidWorkflowDefinitionError{Message: "request type id is empty"}
	}
	if len(rt.Tasks) == 0 {
		return InvalidWorkflowDefinitionError{Message: fmt.Sprintf("request type %s has no tasks", rt.Id)}
	}
	for i, task := range rt.Tasks {
		if task.ExecutionOrder != i+1 {
			return InvalidWorkflowDefinitionError{
				Message: fmt.Sprintf("task %s has execution order %d, expected %d", task.TaskName, task.ExecutionOrder, i+1),
			}
		}
		if !model.ValidTaskType(task.TaskType) {
			return InvalidWorkflowDefinitionError{
				Message: fmt.Sprintf("task %s has unknown type %s", task.TaskName, task.TaskType),
			}
		}
		if err := validateConfiguration(task); err != nil {
			return err
		}
	}
	last := rt.Tasks[len(rt.Tasks)-1]
	if last.TaskType != model.TASK_TYPE_RESPONSE {
		return InvalidWorkflowDefinitionError{
			Message: fmt.Sprintf("request type %s must end with a response task, got %s", rt.Id, last.TaskType),
		}
	}
	return nil
}

func validateConfiguration(task model.TaskDefinition) error {
	switch task.TaskType {
	case model.TASK_TYPE_CUSTOMER_INPUT:
		var conf model.CustomerInputConfig
		if err := task.DecodeConfiguration(&conf); err != nil {
			return InvalidWorkflowDefinitionError{Message: err.Error()}
		}
		if len(conf.Field) == 0 || len(conf.Prompt) == 0 {
			return InvalidWorkflowDefinitionError{
				Message: fmt.Sprintf("customer_input task %s requires field and prompt", task.TaskName),
			}
		}
	case model.TASK_TYPE_API_CALL:
		var conf model.APICallConfig
		if err := task.DecodeConfiguration(&conf); err != nil {
			return InvalidWorkflowDefinitionError{Message: err.Error()}
		}
		if len(conf.Operation) == 0 || len(conf.ResultKey) == 0 {
			return InvalidWorkflowDefinitionError{
				Message: fmt.Sprintf("api_call task %s requires operation and result_key", task.TaskName),
			}
		}
	case model.TASK_TYPE_POLICY_LOOKUP:
		var conf model.PolicyLookupConfig
		if err := task.DecodeConfiguration(&conf); err != nil {
			return InvalidWorkflowDefinitionError{Message: err.Error()}
		}
		if len(conf.PolicyType) == 0 || len(conf.ResultKey) == 0 {
			return InvalidWorkflowDefinitionError{
				Message: fmt.Sprintf("policy_lookup task %s requires policy_type and result_key", task.TaskName),
			}
		}
	case model.TASK_TYPE_RESPONSE:
		var conf model.ResponseConfig
		if err := task.DecodeConfiguration(&conf); err != nil {
			return InvalidWorkflowDefinitionError{Message: err.Error()}
		}
		if len(conf.Template) == 0 {
			return InvalidWorkflowDefinitionError{
				Message: fmt.Sprintf("response task %s requires template", task.TaskName),
			}
		}
	}
	return nil
}
