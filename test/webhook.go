package test

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	stripeapi "github.com/stripe/stripe-go/v81"
	stripewebhook "github.com/stripe/stripe-go/v81/webhook"
)

// WebhookPayload builds the JSON body of a Stripe webhook delivery for
// the given event ID, type and data object. The api_version field must
// match the stripe-go pinned version or ConstructEvent rejects the
// event.
func WebhookPayload(eventID string, eventType stripeapi.EventType, object any) ([]byte, error) {
	rawObject, err := json.Marshal(object)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]any{
		"id":          eventID,
		"type":        eventType,
		"api_version": stripeapi.APIVersion,
		"data": map[string]any{
			"object": json.RawMessage(rawObject),
		},
	})
}

// SignPayload returns a Stripe-Signature header value for the payload,
// signed with secret at the given timestamp.
func SignPayload(payload []byte, secret string, at time.Time) string {
	signature := stripewebhook.ComputeSignature(at, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(signature))
}
