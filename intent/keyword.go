package intent

import (
	"context"
	"regexp"
	"strings"

	"github.com/skydeskhq/skydesk/catalog"
	"github.com/skydeskhq/skydesk/model"
)

var pnrPattern = regexp.MustCompile(`\b[A-Z]{2,3}[0-9]{3,4}\b`)

var simpleReplies = map[string]bool{
	"no": true, "nope": true, "nah": true,
	"yes": true, "yeah": true, "yep": true,
	"ok": true, "okay": true, "fine": true, "sure": true, "alright": true,
	"thanks": true, "thank you": true, "no thanks": true,
	"bye": true, "goodbye": true,
	"hi": true, "hello": true,
	"nothing": true, "all good": true, "i'm good": true, "im good": true,
}

// IsSimpleReply reports whether the utterance is a plain conversational
// response ("thanks", "bye") rather than a new request.
func IsSimpleReply(utterance string) bool {
	return simpleReplies[strings.ToLower(strings.TrimSpace(utterance))]
}

// ExtractPNR pulls a booking-reference-looking token out of an
// utterance, or returns the empty string.
func ExtractPNR(utterance string) string {
	return pnrPattern.FindString(strings.ToUpper(utterance))
}

// KeywordResolver is the deterministic fallback behind the NLU adapter:
// a small fixed vocabulary mapped onto the built-in request types.
type KeywordResolver struct{}

var _ Resolver = new(KeywordResolver)

func NewKeywordResolver() *KeywordResolver {
	return &KeywordResolver{}
}

func (r *KeywordResolver) Name() string {
	return "keyword"
}

func (r *KeywordResolver) Resolve(ctx context.Context, utterance string, sess *model.Session) (*Resolution, error) {
	query := strings.ToLower(utterance)

	requestTypeId := ""
	switch {
	case containsAny(query, "pet", "dog", "cat", "animal", "puppy", "kitten"):
		requestTypeId = catalog.REQUEST_TYPE_PET_TRAVEL
	case strings.Contains(query, "cancel"):
		if containsAny(query, "policy", "fee", "charge", "cost", "what is") {
			requestTypeId = catalog.REQUEST_TYPE_CANCELLATION_POLICY
		} else {
			requestTypeId = catalog.REQUEST_TYPE_CANCEL_TRIP
		}
	case containsAny(query, "status", "on time", "delayed"):
		requestTypeId = catalog.REQUEST_TYPE_FLIGHT_STATUS
	case containsAny(query, "seat", "seating"):
		requestTypeId = catalog.REQUEST_TYPE_SEAT_AVAILABILITY
	case containsAny(query, "baggage", "luggage", "bag", "carry-on", "overweight", "oversized"):
		requestTypeId = catalog.REQUEST_TYPE_BAGGAGE_POLICY
	case strings.Contains(query, "policy"):
		requestTypeId = catalog.REQUEST_TYPE_CANCELLATION_POLICY
	case IsSimpleReply(utterance):
		requestTypeId = catalog.REQUEST_TYPE_GENERAL_INQUIRY
	default:
		return nil, ErrNoMatch
	}

	entities := make(map[string]string)
	if pnr := ExtractPNR(utterance); len(pnr) > 0 {
		entities["pnr"] = pnr
	}
	return &Resolution{RequestTypeId: requestTypeId, Entities: entities}, nil
}

func containsAny(query string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(query, w) {
			return true
		}
	}
	return false
}
