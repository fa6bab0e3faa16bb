package stripe

import (
	"encoding/json"
	"errors"

	stripeapi "github.com/stripe/stripe-go/v81"
	stripewebhook "github.com/stripe/stripe-go/v81/webhook"
	"go.vocdoni.io/dvote/log"
)

// ProcessWebhookEvent verifies an inbound webhook payload and
// dispatches the event. Verification failures are reported as
// ErrInvalidSignature or ErrInvalidPayload; once the signature checks
// out the event is always accepted, whatever its type, so the gateway
// never retries a delivery we simply do not care about.
func (s *Service) ProcessWebhookEvent(payload []byte, signatureHeader string) error {
	event, err := s.gateway.ConstructWebhookEvent(payload, signatureHeader)
	if err != nil {
		if isSignatureError(err) {
			return NewStripeError(ErrInvalidSignature.Code, ErrInvalidSignature.Message, err)
		}
		return NewStripeError(ErrInvalidPayload.Code, ErrInvalidPayload.Message, err)
	}

	// Replayed deliveries are acknowledged without re-dispatch.
	if s.events.AlreadyProcessed(event.ID) {
		log.Debugf("stripe webhook: event %s already processed, skipping", event.ID)
		return nil
	}

	obs, err := parseObservation(event)
	if err != nil {
		// A well-signed event with an unexpected object shape is logged
		// and acknowledged; the HTTP contract never changes past
		// signature verification.
		log.Warnw("stripe webhook: could not parse event object",
			"event", event.ID, "type", event.Type, "error", err)
		return nil
	}
	obs.observe()

	s.events.MarkProcessed(event.ID)
	return nil
}

// isSignatureError reports whether err comes from signature
// verification rather than payload parsing.
func isSignatureError(err error) bool {
	return errors.Is(err, stripewebhook.ErrNotSigned) ||
		errors.Is(err, stripewebhook.ErrInvalidHeader) ||
		errors.Is(err, stripewebhook.ErrNoValidSignature) ||
		errors.Is(err, stripewebhook.ErrTooOld)
}

// observation is a terminal, stateless observation extracted from a
// recognized webhook event. Each arm only logs what happened; none
// mutates state, locally or in the gateway.
type observation interface {
	observe()
}

type firstInstallmentReceived struct {
	PaymentIntentID string
	SubscriptionID  string
	Amount          int64
}

func (o firstInstallmentReceived) observe() {
	log.Infow("first installment payment received",
		"paymentIntent", o.PaymentIntentID, "subscription", o.SubscriptionID, "amount", o.Amount)
}

type paymentSucceeded struct {
	PaymentIntentID string
	Amount          int64
}

func (o paymentSucceeded) observe() {
	log.Debugw("payment intent succeeded", "paymentIntent", o.PaymentIntentID, "amount", o.Amount)
}

type invoicePaid struct {
	InvoiceID      string
	SubscriptionID string
}

func (o invoicePaid) observe() {
	log.Infow("invoice paid for subscription", "invoice", o.InvoiceID, "subscription", o.SubscriptionID)
}

type scheduleCompleted struct {
	ScheduleID string
}

func (o scheduleCompleted) observe() {
	log.Infow("subscription schedule completed", "schedule", o.ScheduleID)
}

type unrecognizedEvent struct {
	ID   string
	Type stripeapi.EventType
}

func (o unrecognizedEvent) observe() {
	log.Debugf("stripe webhook: received unhandled event type %s (id %s)", o.Type, o.ID)
}

// parseObservation maps a verified event onto the observation union,
// with unrecognizedEvent as the explicit default arm.
func parseObservation(event *stripeapi.Event) (observation, error) {
	switch event.Type {
	case stripeapi.EventTypePaymentIntentSucceeded:
		var intent stripeapi.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, err
		}
		if intent.Metadata[MetadataFirstInstallment] == "true" {
			return firstInstallmentReceived{
				PaymentIntentID: intent.ID,
				SubscriptionID:  intent.Metadata[MetadataSubscriptionID],
				Amount:          intent.Amount,
			}, nil
		}
		return paymentSucceeded{PaymentIntentID: intent.ID, Amount: intent.Amount}, nil

	case stripeapi.EventTypeInvoicePaid:
		var invoice stripeapi.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return nil, err
		}
		obs := invoicePaid{InvoiceID: invoice.ID}
		if invoice.Subscription != nil {
			obs.SubscriptionID = invoice.Subscription.ID
		}
		return obs, nil

	case stripeapi.EventTypeSubscriptionScheduleCompleted:
		var schedule stripeapi.SubscriptionSchedule
		if err := json.Unmarshal(event.Data.Raw, &schedule); err != nil {
			return nil, err
		}
		return scheduleCompleted{ScheduleID: schedule.ID}, nil

	default:
		return unrecognizedEvent{ID: event.ID, Type: event.Type}, nil
	}
}
