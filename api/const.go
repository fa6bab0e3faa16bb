package api

const (
	// planProductEndpoint creates a billing product plus its monthly
	// recurring price for an investment installment plan.
	planProductEndpoint = "/api/create-subscription-product"
	// subscriptionEndpoint creates a customer and subscription against
	// an existing plan price.
	subscriptionEndpoint = "/api/create-subscription"
	// paymentIntentEndpoint creates a standalone one-off payment intent.
	paymentIntentEndpoint = "/api/create-payment-intent"
	// webhookEndpoint receives asynchronous payment events from Stripe.
	webhookEndpoint = "/webhook"
)

// maxWebhookBodyBytes caps the webhook request body size.
const maxWebhookBodyBytes = int64(65536)
