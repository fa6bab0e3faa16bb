package api

import (
	"encoding/json"
	"net/http"

	"github.com/invespay/payments-backend/errors"
	"github.com/invespay/payments-backend/stripe"
)

// createSubscriptionHandler subscribes a new customer to an existing
// installment-plan price. The price ID is the only required field; the
// plan amounts are read back from the gateway, and the first
// installment payment intent is derived from them. Note that a failure
// partway through the sequence leaves earlier objects (customer,
// subscription) behind in the gateway: there is no compensation.
func (a *API) createSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	req := &CreateSubscriptionRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.PriceID == "" {
		errors.ErrMissingPriceID.Write(w)
		return
	}

	result, err := a.stripe.CreateSubscription(&stripe.SubscriptionParams{
		PriceID:           req.PriceID,
		CustomerName:      req.CustomerName,
		PaymentMethodType: req.PaymentMethodType,
		PaymentMethodID:   req.PaymentMethodID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpWriteJSON(w, &CreateSubscriptionResponse{
		SubscriptionID: result.SubscriptionID,
		ClientSecret:   result.ClientSecret,
		CustomerID:     result.CustomerID,
	})
}
