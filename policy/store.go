package policy

import (
	"context"
	"fmt"
)

type PolicyNotFoundError struct {
	PolicyType string
}

func (e PolicyNotFoundError) Error() string {
	return fmt.Sprintf("policy %s not found", e.PolicyType)
}

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

type Document struct {
	PolicyType string `json:"policy_type"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	SourceURL  string `json:"source_url,omitempty"`
}

// Text is the render-ready form used by response templates.
func (d Document) Text() string {
	out := fmt.Sprintf("%s\n\n%s", d.Title, d.Content)
	if len(d.SourceURL) > 0 {
		out += fmt.Sprintf("\n\nFor more details, visit: %s", d.SourceURL)
	}
	return out
}

type Store interface {
	Lookup(ctx context.Context, policyType string) (*Document, error)
	Save(ctx context.Context, doc Document) error
}
