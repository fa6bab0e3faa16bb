package api

import (
	"encoding/json"
	"net/http"

	"github.com/invespay/payments-backend/errors"
	"github.com/invespay/payments-backend/stripe"
)

// createPlanProductHandler creates a Stripe product representing an
// investment installment plan together with its monthly recurring
// price. Both the monthly and the total investment amounts are
// required; they are snapshotted into the product metadata so that
// later subscription requests recover the committed plan terms from
// the gateway.
func (a *API) createPlanProductHandler(w http.ResponseWriter, r *http.Request) {
	req := &CreatePlanProductRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.Amount == 0 || req.InvestmentAmount == 0 {
		errors.ErrMissingAmounts.Write(w)
		return
	}
	if err := a.validator.Validate(req); err != nil {
		errors.ErrInvalidRequestData.WithErr(err).Write(w)
		return
	}

	plan, err := a.stripe.CreateInstallmentPlan(&stripe.PlanParams{
		MonthlyAmount:    req.Amount,
		InvestmentAmount: req.InvestmentAmount,
		Currency:         req.Currency,
		CustomerName:     req.CustomerName,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpWriteJSON(w, &CreatePlanProductResponse{
		ProductID: plan.ProductID,
		PriceID:   plan.PriceID,
	})
}
