package model

import "encoding/json"

type TaskType string

const TASK_TYPE_CUSTOMER_INPUT TaskType = "customer_input"
const TASK_TYPE_API_CALL TaskType = "api_call"
const TASK_TYPE_POLICY_LOOKUP TaskType = "policy_lookup"
const TASK_TYPE_RESPONSE TaskType = "response"

func ValidTaskType(tt TaskType) bool {
	switch tt {
	case TASK_TYPE_CUSTOMER_INPUT, TASK_TYPE_API_CALL, TASK_TYPE_POLICY_LOOKUP, TASK_TYPE_RESPONSE:
		return true
	}
	return false
}

// RequestType is a named workflow template for one class of customer
// request. Definitions are immutable during execution; the orchestrator
// only ever reads them.
type RequestType struct {
	Id          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Tasks       []TaskDefinition `json:"tasks"`
}

type TaskDefinition struct {
	TaskName       string         `json:"task_name"`
	TaskType       TaskType       `json:"task_type"`
	ExecutionOrder int            `json:"execution_order"`
	Configuration  map[string]any `json:"configuration"`
}

// DecodeConfiguration maps the raw configuration of a task onto its
// type-specific schema struct.
func (td TaskDefinition) DecodeConfiguration(out any) error {
	data, err := json.Marshal(td.Configuration)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// CustomerInputConfig configures a customer_input task. Prompt may carry
// {$.path} tokens resolved against session data before being shown.
type CustomerInputConfig struct {
	Field       string `json:"field"`
	Prompt      string `json:"prompt"`
	InputType   string `json:"input_type"`
	DeclineText string `json:"decline_text,omitempty"`
}

// APICallConfig configures an api_call task. Params values may carry
// {$.path} tokens. RetryField/RetryPrompt drive the re-ask behavior when
// the operation reports a not-found lookup.
type APICallConfig struct {
	Operation   string         `json:"operation"`
	Params      map[string]any `json:"params"`
	ResultKey   string         `json:"result_key"`
	FailureText string         `json:"failure_text,omitempty"`
	RetryField  string         `json:"retry_field,omitempty"`
	RetryPrompt string         `json:"retry_prompt,omitempty"`
	RetryInput  string         `json:"retry_input_type,omitempty"`
}

type PolicyLookupConfig struct {
	PolicyType string `json:"policy_type"`
	ResultKey  string `json:"result_key"`
}

type ResponseConfig struct {
	Template string `json:"template"`
}

const INPUT_TYPE_CONFIRMATION string = "confirmation"
