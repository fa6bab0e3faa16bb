package api

import (
	"encoding/json"
	"net/http"

	"github.com/invespay/payments-backend/errors"
	"github.com/invespay/payments-backend/stripe"
)

// createPaymentIntentHandler creates a standalone card payment intent
// and returns its client secret. Caller-supplied metadata is forwarded
// to the gateway verbatim.
func (a *API) createPaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	req := &CreatePaymentIntentRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.Amount == 0 {
		errors.ErrMissingAmount.Write(w)
		return
	}
	if err := a.validator.Validate(req); err != nil {
		errors.ErrInvalidRequestData.WithErr(err).Write(w)
		return
	}

	clientSecret, err := a.stripe.CreatePaymentIntent(&stripe.PaymentIntentParams{
		Amount:   req.Amount,
		Currency: req.Currency,
		Metadata: req.Metadata,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpWriteJSON(w, &CreatePaymentIntentResponse{ClientSecret: clientSecret})
}
