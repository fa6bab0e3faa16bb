package stripe

import (
	"net/http"
	"time"

	stripeapi "github.com/stripe/stripe-go/v81"
	stripecustomer "github.com/stripe/stripe-go/v81/customer"
	stripepaymentintent "github.com/stripe/stripe-go/v81/paymentintent"
	stripeprice "github.com/stripe/stripe-go/v81/price"
	stripeproduct "github.com/stripe/stripe-go/v81/product"
	stripesubscription "github.com/stripe/stripe-go/v81/subscription"
	stripewebhook "github.com/stripe/stripe-go/v81/webhook"
)

// Gateway is the payment processor surface used by the Service. The
// production implementation is Client; tests inject a fake so that no
// request ever leaves the process.
type Gateway interface {
	CreateProduct(params *stripeapi.ProductParams) (*stripeapi.Product, error)
	CreatePrice(params *stripeapi.PriceParams) (*stripeapi.Price, error)
	GetPrice(priceID string) (*stripeapi.Price, error)
	GetProduct(productID string) (*stripeapi.Product, error)
	CreateCustomer(params *stripeapi.CustomerParams) (*stripeapi.Customer, error)
	UpdateCustomer(customerID string, params *stripeapi.CustomerParams) (*stripeapi.Customer, error)
	CreateSubscription(params *stripeapi.SubscriptionParams) (*stripeapi.Subscription, error)
	CreatePaymentIntent(params *stripeapi.PaymentIntentParams) (*stripeapi.PaymentIntent, error)
	ConstructWebhookEvent(payload []byte, signatureHeader string) (*stripeapi.Event, error)
}

// Client wraps the Stripe API client with additional functionality
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new Stripe client with the given configuration
func NewClient(config *Config) *Client {
	stripeapi.Key = config.APIKey

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateProduct creates a new product
func (*Client) CreateProduct(params *stripeapi.ProductParams) (*stripeapi.Product, error) {
	product, err := stripeproduct.New(params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to create product", err)
	}
	return product, nil
}

// CreatePrice creates a new price attached to a product
func (*Client) CreatePrice(params *stripeapi.PriceParams) (*stripeapi.Price, error) {
	price, err := stripeprice.New(params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to create price", err)
	}
	return price, nil
}

// GetPrice retrieves a price by ID
func (*Client) GetPrice(priceID string) (*stripeapi.Price, error) {
	price, err := stripeprice.Get(priceID, &stripeapi.PriceParams{})
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to get price", err)
	}
	return price, nil
}

// GetProduct retrieves a product by ID
func (*Client) GetProduct(productID string) (*stripeapi.Product, error) {
	product, err := stripeproduct.Get(productID, &stripeapi.ProductParams{})
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to get product", err)
	}
	return product, nil
}

// CreateCustomer creates a new customer
func (*Client) CreateCustomer(params *stripeapi.CustomerParams) (*stripeapi.Customer, error) {
	customer, err := stripecustomer.New(params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to create customer", err)
	}
	return customer, nil
}

// UpdateCustomer updates an existing customer
func (*Client) UpdateCustomer(customerID string, params *stripeapi.CustomerParams) (*stripeapi.Customer, error) {
	customer, err := stripecustomer.Update(customerID, params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to update customer", err)
	}
	return customer, nil
}

// CreateSubscription creates a new subscription
func (*Client) CreateSubscription(params *stripeapi.SubscriptionParams) (*stripeapi.Subscription, error) {
	subscription, err := stripesubscription.New(params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to create subscription", err)
	}
	return subscription, nil
}

// CreatePaymentIntent creates a new payment intent
func (*Client) CreatePaymentIntent(params *stripeapi.PaymentIntentParams) (*stripeapi.PaymentIntent, error) {
	intent, err := stripepaymentintent.New(params)
	if err != nil {
		return nil, NewStripeError("api_call_failed", "failed to create payment intent", err)
	}
	return intent, nil
}

// ConstructWebhookEvent validates a webhook payload against its
// signature header and parses it into an event.
func (c *Client) ConstructWebhookEvent(payload []byte, signatureHeader string) (*stripeapi.Event, error) {
	event, err := stripewebhook.ConstructEvent(payload, signatureHeader, c.config.WebhookSecret)
	if err != nil {
		return nil, err
	}
	return &event, nil
}
