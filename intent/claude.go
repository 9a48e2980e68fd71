package intent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/skydeskhq/skydesk/catalog"
	"github.com/skydeskhq/skydesk/model"
)

const classifierSystemPrompt = "You are an airline customer support intent classifier. " +
	"Classify the customer's message into exactly one of the listed request types. " +
	"Reply with the request type id on the first line, or NONE if nothing fits. " +
	"If the message contains a booking reference (PNR), add a line 'pnr: <value>'."

// ClaudeResolver maps free text onto a request type using the Anthropic
// API. It is an external collaborator; callers must treat any error as a
// soft failure and fall through to the next resolver in the chain.
type ClaudeResolver struct {
	client  anthropic.Client
	model   anthropic.Model
	catalog *catalog.Service
	timeout time.Duration
}

var _ Resolver = new(ClaudeResolver)

type ClaudeResolverConfig struct {
	APIKey  string
	Model   anthropic.Model
	Timeout time.Duration
}

func NewClaudeResolver(conf ClaudeResolverConfig, cat *catalog.Service) *ClaudeResolver {
	m := conf.Model
	if m == "" {
		m = anthropic.ModelClaude3_5Haiku20241022
	}
	timeout := conf.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &ClaudeResolver{
		client:  anthropic.NewClient(option.WithAPIKey(conf.APIKey)),
		model:   m,
		catalog: cat,
		timeout: timeout,
	}
}

func (r *ClaudeResolver) Name() string {
	return "claude"
}

func (r *ClaudeResolver) Resolve(ctx context.Context, utterance string, sess *model.Session) (*Resolution, error) {
	types, err := r.catalog.GetActive()
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(types))
	var sb strings.Builder
	sb.WriteString("Request types:\n")
	for _, rt := range types {
		known[rt.Id] = true
		fmt.Fprintf(&sb, "- %s: %s (%s)\n", rt.Id, rt.Name, rt.Description)
	}
	fmt.Fprintf(&sb, "\nCustomer message: %q\n", utterance)

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	resp, err := r.client.Messages.New(callCtx, anthropic.MessageNewParams{
		Model:     r.model,
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: classifierSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(sb.String())),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("intent classification call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}
	return parseResolution(text.String(), known)
}

func parseResolution(text string, known map[string]bool) (*Resolution, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 0 {
		return nil, ErrNoMatch
	}
	id := strings.TrimSpace(lines[0])
	if id == "" || strings.EqualFold(id, "NONE") || !known[id] {
		return nil, ErrNoMatch
	}
	entities := make(map[string]string)
	for _, line := range lines[1:] {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if len(key) > 0 && len(value) > 0 {
			entities[key] = value
		}
	}
	return &Resolution{RequestTypeId: id, Entities: entities}, nil
}
