package stripe

// DefaultCurrency is the minor-unit currency code used when neither the
// configuration nor the request specifies one.
const DefaultCurrency = "sgd"

// Config holds the complete Stripe configuration
type Config struct {
	// APIKey authenticates outbound calls to the Stripe API.
	APIKey string
	// WebhookSecret authenticates inbound webhook events.
	WebhookSecret string
	// Currency is the default currency code for created prices and
	// payment intents.
	Currency string
}
