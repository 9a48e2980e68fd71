package policy

import (
	"context"
	"sync"
)

type inMemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

var _ Store = new(inMemoryStore)

func NewInMemoryStore() *inMemoryStore {
	return &inMemoryStore{
		docs: make(map[string]Document),
	}
}

func (s *inMemoryStore) Lookup(ctx context.Context, policyType string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[policyType]
	if !ok {
		return nil, PolicyNotFoundError{PolicyType: policyType}
	}
	return &doc, nil
}

func (s *inMemoryStore) Save(ctx context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.PolicyType] = doc
	return nil
}

// SeedDefaults installs the stock policy documents into a store that
// does not have them yet.
func SeedDefaults(ctx context.Context, s Store) error {
	for _, doc := range DefaultDocuments() {
		if _, err := s.Lookup(ctx, doc.PolicyType); err == nil {
			continue
		}
		if err := s.Save(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

func DefaultDocuments() []Document {
	return []Document{
		{
			PolicyType: "cancellation",
			Title:      "Our Cancellation Policy",
			Content: "- Cancellations made 7+ days before departure: 10% cancellation fee\n" +
				"- Cancellations made 3-7 days before departure: 25% cancellation fee\n" +
				"- Cancellations made 1-3 days before departure: 50% cancellation fee\n" +
				"- Cancellations made less than 24 hours before departure: 75% cancellation fee\n\n" +
				"Refunds are processed within 7 business days.",
		},
		{
			PolicyType: "pet_travel",
			Title:      "Pet Travel Policy",
			Content: "We welcome small cats and dogs in the cabin on most flights!\n\n" +
				"In-Cabin Pet Travel:\n" +
				"- Pets must be at least 4 months old\n" +
				"- Maximum weight: 20 lbs (pet + carrier)\n" +
				"- Carrier dimensions: 17\"L x 12.5\"W x 8.5\"H\n" +
				"- Fee: $125 each way\n\n" +
				"Requirements:\n" +
				"- Pet must remain in carrier under the seat\n" +
				"- Valid health certificate required\n" +
				"- Advance booking required (limited spots)",
			SourceURL: "https://www.airline.com/traveling-with-pets",
		},
		{
			PolicyType: "baggage",
			Title:      "Baggage Allowance Policy",
			Content: "Checked Baggage:\n" +
				"- Economy Class: 2 bags, up to 50 lbs (23 kg) each\n" +
				"- Business Class: 3 bags, up to 70 lbs (32 kg) each\n" +
				"- First Class: 4 bags, up to 70 lbs (32 kg) each\n\n" +
				"Carry-On Baggage:\n" +
				"- 1 carry-on bag: maximum 22\" x 14\" x 9\" (56 x 36 x 23 cm)\n" +
				"- 1 personal item: purse, laptop bag, or briefcase\n\n" +
				"Oversized/Overweight Fees:\n" +
				"- 51-70 lbs (23-32 kg): $100 per bag\n" +
				"- 71-100 lbs (32-45 kg): $200 per bag\n" +
				"- Over 100 lbs: not accepted",
			SourceURL: "https://www.airline.com/baggage",
		},
	}
}
