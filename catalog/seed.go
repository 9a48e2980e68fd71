package catalog

import (
	"github.com/skydeskhq/skydesk/logger"
	"github.com/skydeskhq/skydesk/model"
	"go.uber.org/zap"
)

const REQUEST_TYPE_CANCEL_TRIP string = "cancel-trip"
const REQUEST_TYPE_FLIGHT_STATUS string = "flight-status"
const REQUEST_TYPE_SEAT_AVAILABILITY string = "seat-availability"
const REQUEST_TYPE_CANCELLATION_POLICY string = "cancellation-policy"
const REQUEST_TYPE_PET_TRAVEL string = "pet-travel"
const REQUEST_TYPE_BAGGAGE_POLICY string = "baggage-policy"
const REQUEST_TYPE_GENERAL_INQUIRY string = "general-inquiry"

// Seed installs the built-in request types when the catalog is empty.
// Administrators can replace them through the admin endpoints afterwards.
func Seed(s *Service) error {
	existing, err := s.GetActive()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, rt := range BuiltinRequestTypes() {
		if err := s.Save(rt); err != nil {
			return err
		}
		logger.Info("seeded request type", zap.String("requestType", rt.Id))
	}
	return nil
}

func BuiltinRequestTypes() []model.RequestType {
	return []model.RequestType{
		{
			Id:          REQUEST_TYPE_CANCEL_TRIP,
			Name:        "Cancel Trip",
			Description: "Handle flight cancellation requests",
			Tasks: []model.TaskDefinition{
				{
					TaskName:       "Get flight details from customer",
					TaskType:       model.TASK_TYPE_CUSTOMER_INPUT,
					ExecutionOrder: 1,
					Configuration: map[string]any{
						"field":      "pnr",
						"input_type": "pnr",
						"prompt":     "To cancel your trip, I'll need your PNR (booking reference). Could you please provide it?",
					},
				},
				{
					TaskName:       "Get booking details",
					TaskType:       model.TASK_TYPE_API_CALL,
					ExecutionOrder: 2,
					Configuration: map[string]any{
						"operation":        "getBooking",
						"params":           map[string]any{"pnr": "{$.collected.pnr}"},
						"result_key":       "booking",
						"retry_field":      "pnr",
						"retry_prompt":     "I couldn't find an active booking with PNR {$.collected.pnr}. Please verify and provide the correct PNR.",
						"retry_input_type": "pnr",
					},
				},
				{
					TaskName:       "Confirm booking details with customer",
					TaskType:       model.TASK_TYPE_CUSTOMER_INPUT,
					ExecutionOrder: 3,
					Configuration: map[string]any{
						"field":      "confirm",
						"input_type": "confirmation",
						"prompt": "I found your booking (PNR: {$.collected.pnr}):\n" +
							"Flight from {$.results.booking.source} to {$.results.booking.destination}\n" +
							"Departure: {$.results.booking.scheduled_departure}\n" +
							"Seat: {$.results.booking.seat}\n\n" +
							"Are you sure you want to cancel this flight? Please confirm (yes/no).",
						"decline_text": "Cancellation cancelled. Is there anything else I can help you with?",
					},
				},
				{
					TaskName:       "Cancel Flight",
					TaskType:       model.TASK_TYPE_API_CALL,
					ExecutionOrder: 4,
					Configuration: map[string]any{
						"operation":    "cancel",
						"params":       map[string]any{"pnr": "{$.collected.pnr}", "reason": "customer request"},
						"result_key":   "cancellation",
						"failure_text": "I encountered an error processing your cancellation. Please try again or contact support.",
					},
				},
				{
					TaskName:       "Send cancellation summary",
					TaskType:       model.TASK_TYPE_RESPONSE,
					ExecutionOrder: 5,
					Configuration: map[string]any{
						"template": "{$.results.cancellation.message}\n\n" +
							"Cancellation charges: ${$.results.cancellation.fee}\n" +
							"Refund amount: ${$.results.cancellation.refund_amount}\n" +
							"Refund will be processed by: {$.results.cancellation.refund_date}\n\n" +
							"Is there anything else I can help you with?",
					},
				},
			},
		},
		{
			Id:          REQUEST_TYPE_FLIGHT_STATUS,
			Name:        "Flight Status",
			Description: "Check current flight status by booking reference",
			Tasks: []model.TaskDefinition{
				{
					TaskName:       "Get PNR from customer",
					TaskType:       model.TASK_TYPE_CUSTOMER_INPUT,
					ExecutionOrder: 1,
					Configuration: map[string]any{
						"field":      "pnr",
						"input_type": "pnr",
						"prompt":     "To check your flight status, please provide your PNR (booking reference).",
					},
				},
				{
					TaskName:       "Fetch flight status",
					TaskType:       model.TASK_TYPE_API_CALL,
					ExecutionOrder: 2,
					Configuration: map[string]any{
						"operation":        "flightStatus",
						"params":           map[string]any{"pnr": "{$.collected.pnr}"},
						"result_key":       "status",
						"retry_field":      "pnr",
						"retry_prompt":     "I couldn't find an active booking with PNR {$.collected.pnr}. Please verify your booking reference.",
						"retry_input_type": "pnr",
					},
				},
				{
					TaskName:       "Send flight status",
					TaskType:       model.TASK_TYPE_RESPONSE,
					ExecutionOrder: 3,
					Configuration: map[string]any{
						"template": "Flight Status for PNR {$.collected.pnr}:\n\n" +
							"Flight: {$.results.status.flight_id}\n" +
							"Route: {$.results.status.source} -> {$.results.status.destination}\n" +
							"Scheduled Departure: {$.results.status.scheduled_departure}\n" +
							"Current Departure: {$.results.status.current_departure}\n" +
							"Status: {$.results.status.status}\n" +
							"Your Seat: {$.results.status.seat}",
					},
				},
			},
		},
		{
			Id:          REQUEST_TYPE_SEAT_AVAILABILITY,
			Name:        "Seat Availability",
			Description: "Show available seats by booking reference or route",
			Tasks: []model.TaskDefinition{
				{
					TaskName:       "Get search criteria from customer",
					TaskType:       model.TASK_TYPE_CUSTOMER_INPUT,
					ExecutionOrder: 1,
					Configuration: map[string]any{
						"field":      "seat_query",
						"input_type": "seat_search",
						"prompt": "I'd be happy to help you check seat availability!\n\n" +
							"You can search in two ways:\n" +
							"1. If you have a booking: provide your PNR (e.g., ABC123)\n" +
							"2. Search by route: tell me the route (e.g., 'JFK to LAX')\n\n" +
							"How would you like to proceed?",
					},
				},
				{
					TaskName:       "Search available seats",
					TaskType:       model.TASK_TYPE_API_CALL,
					ExecutionOrder: 2,
					Configuration: map[string]any{
						"operation":        "availableSeats",
						"params":           map[string]any{"query": "{$.collected.seat_query}"},
						"result_key":       "seats",
						"retry_field":      "seat_query",
						"retry_prompt":     "I couldn't find any flights matching that. Please provide a valid PNR or a route like 'JFK to LAX'.",
						"retry_input_type": "seat_search",
					},
				},
				{
					TaskName:       "Send seat availability",
					TaskType:       model.TASK_TYPE_RESPONSE,
					ExecutionOrder: 3,
					Configuration: map[string]any{
						"template": "{$.results.seats.summary}",
					},
				},
			},
		},
		policyRequestType(REQUEST_TYPE_CANCELLATION_POLICY, "Cancellation Policy",
			"Answer cancellation policy questions", "cancellation"),
		policyRequestType(REQUEST_TYPE_PET_TRAVEL, "Pet Travel",
			"Answer pet travel policy questions", "pet_travel"),
		policyRequestType(REQUEST_TYPE_BAGGAGE_POLICY, "Baggage Policy",
			"Answer baggage allowance questions", "baggage"),
		{
			Id:          REQUEST_TYPE_GENERAL_INQUIRY,
			Name:        "General Inquiry",
			Description: "Fallback for anything else airline related",
			Tasks: []model.TaskDefinition{
				{
					TaskName:       "Send general help",
					TaskType:       model.TASK_TYPE_RESPONSE,
					ExecutionOrder: 1,
					Configuration: map[string]any{
						"template": "I can help you cancel a trip, check your flight status, look up seat availability, " +
							"or answer questions about our cancellation, baggage and pet travel policies. " +
							"What would you like to do?",
					},
				},
			},
		},
	}
}

func policyRequestType(id string, name string, description string, policyType string) model.RequestType {
	return model.RequestType{
		Id:          id,
		Name:        name,
		Description: description,
		Tasks: []model.TaskDefinition{
			{
				TaskName:       "Fetch policy document",
				TaskType:       model.TASK_TYPE_POLICY_LOOKUP,
				ExecutionOrder: 1,
				Configuration: map[string]any{
					"policy_type": policyType,
					"result_key":  "policy",
				},
			},
			{
				TaskName:       "Send policy",
				TaskType:       model.TASK_TYPE_RESPONSE,
				ExecutionOrder: 2,
				Configuration: map[string]any{
					"template": "{$.results.policy.text}",
				},
			},
		},
	}
}
