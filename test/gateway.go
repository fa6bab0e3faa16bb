// Package test provides shared helpers for the payment backend tests:
// an in-process fake of the Stripe gateway and a webhook payload
// signer. No test using them ever talks to the network.
package test

import (
	"fmt"
	"sync"

	stripeapi "github.com/stripe/stripe-go/v81"
	stripewebhook "github.com/stripe/stripe-go/v81/webhook"
)

// Gateway method names, used for call recording and failure injection.
const (
	CallCreateProduct       = "CreateProduct"
	CallCreatePrice         = "CreatePrice"
	CallGetPrice            = "GetPrice"
	CallGetProduct          = "GetProduct"
	CallCreateCustomer      = "CreateCustomer"
	CallUpdateCustomer      = "UpdateCustomer"
	CallCreateSubscription  = "CreateSubscription"
	CallCreatePaymentIntent = "CreatePaymentIntent"
)

// Gateway is a fake, recording implementation of stripe.Gateway. Every
// call is appended to Calls in order, and the params of each creation
// call are retained so tests can assert on the exact request the
// service built. A method listed in Fail returns its error after
// recording the call.
type Gateway struct {
	mu    sync.Mutex
	Calls []string
	Fail  map[string]error

	ProductParams       []*stripeapi.ProductParams
	PriceParams         []*stripeapi.PriceParams
	CustomerParams      []*stripeapi.CustomerParams
	CustomerUpdates     []*stripeapi.CustomerParams
	SubscriptionParams  []*stripeapi.SubscriptionParams
	PaymentIntentParams []*stripeapi.PaymentIntentParams

	Products map[string]*stripeapi.Product
	Prices   map[string]*stripeapi.Price

	// WebhookSecret is used by ConstructWebhookEvent for real signature
	// verification, so webhook tests exercise the production code path.
	WebhookSecret string
}

// NewGateway returns an empty fake gateway with the given webhook
// signing secret.
func NewGateway(webhookSecret string) *Gateway {
	return &Gateway{
		Fail:          map[string]error{},
		Products:      map[string]*stripeapi.Product{},
		Prices:        map[string]*stripeapi.Price{},
		WebhookSecret: webhookSecret,
	}
}

// SeedPlan stores a product with the given metadata and a price
// pointing at it, returning their IDs. It mimics what a previous
// plan-creation request would have left behind in the gateway.
func (g *Gateway) SeedPlan(productID, priceID string, metadata map[string]string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Products[productID] = &stripeapi.Product{ID: productID, Metadata: metadata}
	g.Prices[priceID] = &stripeapi.Price{
		ID:      priceID,
		Product: &stripeapi.Product{ID: productID},
	}
}

// CallCount returns how many times the named method was invoked.
func (g *Gateway) CallCount(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, call := range g.Calls {
		if call == name {
			n++
		}
	}
	return n
}

// TotalCalls returns the total number of gateway invocations.
func (g *Gateway) TotalCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Calls)
}

func (g *Gateway) record(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls = append(g.Calls, name)
	return g.Fail[name]
}

// CreateProduct records the call and returns a product echoing the
// requested name and metadata.
func (g *Gateway) CreateProduct(params *stripeapi.ProductParams) (*stripeapi.Product, error) {
	if err := g.record(CallCreateProduct); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ProductParams = append(g.ProductParams, params)
	product := &stripeapi.Product{
		ID:       fmt.Sprintf("prod_test_%d", len(g.ProductParams)),
		Metadata: params.Metadata,
	}
	if params.Name != nil {
		product.Name = *params.Name
	}
	g.Products[product.ID] = product
	return product, nil
}

// CreatePrice records the call and returns a price bound to the
// requested product.
func (g *Gateway) CreatePrice(params *stripeapi.PriceParams) (*stripeapi.Price, error) {
	if err := g.record(CallCreatePrice); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.PriceParams = append(g.PriceParams, params)
	price := &stripeapi.Price{ID: fmt.Sprintf("price_test_%d", len(g.PriceParams))}
	if params.Product != nil {
		price.Product = &stripeapi.Product{ID: *params.Product}
	}
	if params.UnitAmount != nil {
		price.UnitAmount = *params.UnitAmount
	}
	g.Prices[price.ID] = price
	return price, nil
}

// GetPrice returns a previously seeded or created price.
func (g *Gateway) GetPrice(priceID string) (*stripeapi.Price, error) {
	if err := g.record(CallGetPrice); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	price, ok := g.Prices[priceID]
	if !ok {
		return nil, fmt.Errorf("no such price: %s", priceID)
	}
	return price, nil
}

// GetProduct returns a previously seeded or created product.
func (g *Gateway) GetProduct(productID string) (*stripeapi.Product, error) {
	if err := g.record(CallGetProduct); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	product, ok := g.Products[productID]
	if !ok {
		return nil, fmt.Errorf("no such product: %s", productID)
	}
	return product, nil
}

// CreateCustomer records the call and returns a fresh customer.
func (g *Gateway) CreateCustomer(params *stripeapi.CustomerParams) (*stripeapi.Customer, error) {
	if err := g.record(CallCreateCustomer); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.CustomerParams = append(g.CustomerParams, params)
	return &stripeapi.Customer{ID: fmt.Sprintf("cus_test_%d", len(g.CustomerParams))}, nil
}

// UpdateCustomer records the update params for later assertion.
func (g *Gateway) UpdateCustomer(customerID string, params *stripeapi.CustomerParams) (*stripeapi.Customer, error) {
	if err := g.record(CallUpdateCustomer); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.CustomerUpdates = append(g.CustomerUpdates, params)
	return &stripeapi.Customer{ID: customerID}, nil
}

// CreateSubscription records the call and returns a fresh subscription.
func (g *Gateway) CreateSubscription(params *stripeapi.SubscriptionParams) (*stripeapi.Subscription, error) {
	if err := g.record(CallCreateSubscription); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.SubscriptionParams = append(g.SubscriptionParams, params)
	return &stripeapi.Subscription{ID: fmt.Sprintf("sub_test_%d", len(g.SubscriptionParams))}, nil
}

// CreatePaymentIntent records the call and returns an intent echoing
// the requested amount, with a deterministic client secret.
func (g *Gateway) CreatePaymentIntent(params *stripeapi.PaymentIntentParams) (*stripeapi.PaymentIntent, error) {
	if err := g.record(CallCreatePaymentIntent); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.PaymentIntentParams = append(g.PaymentIntentParams, params)
	intent := &stripeapi.PaymentIntent{
		ID:           fmt.Sprintf("pi_test_%d", len(g.PaymentIntentParams)),
		ClientSecret: fmt.Sprintf("pi_test_%d_secret", len(g.PaymentIntentParams)),
	}
	if params.Amount != nil {
		intent.Amount = *params.Amount
	}
	return intent, nil
}

// ConstructWebhookEvent performs real signature verification against
// the fake's webhook secret.
func (g *Gateway) ConstructWebhookEvent(payload []byte, signatureHeader string) (*stripeapi.Event, error) {
	event, err := stripewebhook.ConstructEvent(payload, signatureHeader, g.WebhookSecret)
	if err != nil {
		return nil, err
	}
	return &event, nil
}
