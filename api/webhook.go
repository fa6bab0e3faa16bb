package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/invespay/payments-backend/stripe"
	"go.vocdoni.io/dvote/log"
)

// Webhook response bodies. The gateway matches on these plain-text
// strings, so they are fixed.
const (
	webhookBodySuccess          = "Success"
	webhookBodyInvalidPayload   = "Invalid payload"
	webhookBodyInvalidSignature = "Invalid signature"
)

// handleWebhook receives asynchronous payment events from Stripe. The
// raw body is verified against the Stripe-Signature header before any
// dispatch. Once the signature checks out the response is always
// 200 "Success", whatever the event type, so the gateway does not
// retry deliveries this service does not recognize.
func (a *API) handleWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Errorf("stripe webhook: error reading request body: %s", err.Error())
		httpWriteText(w, http.StatusBadRequest, webhookBodyInvalidPayload)
		return
	}

	signatureHeader := r.Header.Get("Stripe-Signature")
	if err := a.stripe.ProcessWebhookEvent(payload, signatureHeader); err != nil {
		log.Warnw("stripe webhook: event rejected", "error", err)
		var stripeErr *stripe.StripeError
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrInvalidSignature.Code {
			httpWriteText(w, http.StatusBadRequest, webhookBodyInvalidSignature)
			return
		}
		httpWriteText(w, http.StatusBadRequest, webhookBodyInvalidPayload)
		return
	}

	httpWriteText(w, http.StatusOK, webhookBodySuccess)
}

// httpWriteText writes a fixed plain-text response body.
func httpWriteText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}
