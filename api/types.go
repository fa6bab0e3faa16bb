package api

// CreatePlanProductRequest is the request to create an installment-plan
// product with its monthly recurring price. Amounts are integer
// minor-currency-unit values (cents).
type CreatePlanProductRequest struct {
	Amount           int64  `json:"amount" validate:"required"`
	InvestmentAmount int64  `json:"investmentAmount" validate:"required"`
	Currency         string `json:"currency" validate:"omitempty,currency"`
	CustomerName     string `json:"customerName"`
}

// CreatePlanProductResponse identifies the created gateway objects.
type CreatePlanProductResponse struct {
	ProductID string `json:"productId"`
	PriceID   string `json:"priceId"`
}

// CreateSubscriptionRequest is the request to subscribe a new customer
// to an existing plan price. PaymentMethodID is used when present but
// not required; a missing one surfaces as a gateway error.
type CreateSubscriptionRequest struct {
	PriceID           string `json:"priceId" validate:"required"`
	CustomerName      string `json:"customerName"`
	PaymentMethodType string `json:"paymentMethodType"`
	PaymentMethodID   string `json:"paymentMethodID"`
}

// CreateSubscriptionResponse carries what the client needs to confirm
// the first installment payment.
type CreateSubscriptionResponse struct {
	SubscriptionID string `json:"subscriptionId"`
	ClientSecret   string `json:"clientSecret"`
	CustomerID     string `json:"customerId"`
}

// CreatePaymentIntentRequest is the request for a standalone one-off
// payment intent. Metadata is forwarded to the gateway verbatim.
type CreatePaymentIntentRequest struct {
	Amount   int64             `json:"amount" validate:"required"`
	Currency string            `json:"currency" validate:"omitempty,currency"`
	Metadata map[string]string `json:"metadata"`
}

// CreatePaymentIntentResponse carries the client secret used to confirm
// the payment client-side.
type CreatePaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}
