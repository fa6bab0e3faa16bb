// Package stripe brokers recurring-payment setup against the Stripe
// API: installment-plan products and prices, customers, subscriptions,
// payment intents and inbound webhook events.
package stripe

import (
	"fmt"
	"strconv"

	stripeapi "github.com/stripe/stripe-go/v81"
	"go.vocdoni.io/dvote/log"
)

// Metadata keys attached to the gateway objects created by this
// service. Downstream consumers reconcile plans against these, so the
// names are part of the external contract.
const (
	MetadataTotalInvestmentAmount = "total_investment_amount"
	MetadataMonthlyAmount         = "monthly_amount"
	MetadataCustomerName          = "customer_name"
	MetadataProductID             = "product_id"
	MetadataSubscriptionID        = "subscription_id"
	MetadataFirstInstallment      = "is_first_installment"
)

// DefaultPaymentMethodType is used when the caller does not restrict
// the subscription payment method type.
const DefaultPaymentMethodType = "card"

// Service provides the main business logic for Stripe operations
type Service struct {
	gateway Gateway
	events  *MemoryEventStore
	config  *Config
}

// NewService creates a new Stripe service
func NewService(config *Config, gateway Gateway) (*Service, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}

	return &Service{
		gateway: gateway,
		events:  NewMemoryEventStore(0),
		config:  config,
	}, nil
}

// PlanParams holds the parameters for creating an installment plan
type PlanParams struct {
	MonthlyAmount    int64
	InvestmentAmount int64
	Currency         string
	CustomerName     string
}

// PlanInfo identifies the gateway objects backing an installment plan
type PlanInfo struct {
	ProductID string
	PriceID   string
}

// SubscriptionParams holds the parameters for subscribing a customer
// to an existing installment plan price
type SubscriptionParams struct {
	PriceID           string
	CustomerName      string
	PaymentMethodType string
	PaymentMethodID   string
}

// SubscriptionResult carries the identifiers the client needs to
// confirm the first installment payment
type SubscriptionResult struct {
	SubscriptionID string
	ClientSecret   string
	CustomerID     string
}

// PaymentIntentParams holds the parameters for a standalone one-off
// payment confirmation
type PaymentIntentParams struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

// CreateInstallmentPlan creates a product representing the investment
// plan and a monthly recurring price on it. The plan amounts are
// snapshotted into the product metadata so later subscription requests
// recover them from the gateway instead of trusting the client.
func (s *Service) CreateInstallmentPlan(params *PlanParams) (*PlanInfo, error) {
	currency := params.Currency
	if currency == "" {
		currency = s.config.Currency
	}

	productParams := &stripeapi.ProductParams{
		Name: stripeapi.String(fmt.Sprintf("Investment Installment Plan - %s", params.CustomerName)),
	}
	productParams.AddMetadata(MetadataTotalInvestmentAmount, strconv.FormatInt(params.InvestmentAmount, 10))
	productParams.AddMetadata(MetadataMonthlyAmount, strconv.FormatInt(params.MonthlyAmount, 10))
	productParams.AddMetadata(MetadataCustomerName, params.CustomerName)

	product, err := s.gateway.CreateProduct(productParams)
	if err != nil {
		return nil, err
	}

	price, err := s.gateway.CreatePrice(&stripeapi.PriceParams{
		Product:    stripeapi.String(product.ID),
		UnitAmount: stripeapi.Int64(params.MonthlyAmount),
		Currency:   stripeapi.String(currency),
		Recurring: &stripeapi.PriceRecurringParams{
			Interval:      stripeapi.String(string(stripeapi.PriceRecurringIntervalMonth)),
			IntervalCount: stripeapi.Int64(1),
		},
	})
	if err != nil {
		return nil, err
	}

	log.Infow("installment plan created",
		"product", product.ID, "price", price.ID,
		"monthlyAmount", params.MonthlyAmount, "investmentAmount", params.InvestmentAmount)

	return &PlanInfo{
		ProductID: product.ID,
		PriceID:   price.ID,
	}, nil
}

// CreateSubscription subscribes a new customer to an installment-plan
// price and creates the first-installment payment intent. The five
// gateway calls are strictly ordered, each depending on the previous
// result. There is no compensation on partial failure: if a later step
// fails, earlier objects (notably the customer) remain in the gateway.
func (s *Service) CreateSubscription(params *SubscriptionParams) (*SubscriptionResult, error) {
	paymentMethodType := params.PaymentMethodType
	if paymentMethodType == "" {
		paymentMethodType = DefaultPaymentMethodType
	}

	// Recover the plan terms committed at product-creation time. The
	// client only supplies the price ID, so it cannot tamper with the
	// amounts.
	price, err := s.gateway.GetPrice(params.PriceID)
	if err != nil {
		return nil, err
	}
	product, err := s.gateway.GetProduct(price.Product.ID)
	if err != nil {
		return nil, err
	}

	customerParams := &stripeapi.CustomerParams{
		Name: stripeapi.String(params.CustomerName),
	}
	// The payment method ID is not validated here: an absent one
	// surfaces as a gateway-side error further down.
	if params.PaymentMethodID != "" {
		customerParams.PaymentMethod = stripeapi.String(params.PaymentMethodID)
	}
	customerParams.AddMetadata(MetadataTotalInvestmentAmount, product.Metadata[MetadataTotalInvestmentAmount])
	customerParams.AddMetadata(MetadataMonthlyAmount, product.Metadata[MetadataMonthlyAmount])

	customer, err := s.gateway.CreateCustomer(customerParams)
	if err != nil {
		return nil, err
	}

	invoiceSettings := &stripeapi.CustomerInvoiceSettingsParams{}
	if params.PaymentMethodID != "" {
		invoiceSettings.DefaultPaymentMethod = stripeapi.String(params.PaymentMethodID)
	}
	if _, err := s.gateway.UpdateCustomer(customer.ID, &stripeapi.CustomerParams{
		InvoiceSettings: invoiceSettings,
	}); err != nil {
		return nil, err
	}

	subscriptionParams := &stripeapi.SubscriptionParams{
		Customer: stripeapi.String(customer.ID),
		Items: []*stripeapi.SubscriptionItemsParams{
			{Price: stripeapi.String(params.PriceID)},
		},
		PaymentSettings: &stripeapi.SubscriptionPaymentSettingsParams{
			PaymentMethodTypes: stripeapi.StringSlice([]string{paymentMethodType}),
			SaveDefaultPaymentMethod: stripeapi.String(
				string(stripeapi.SubscriptionPaymentSettingsSaveDefaultPaymentMethodOnSubscription)),
		},
	}
	subscriptionParams.AddMetadata(MetadataProductID, product.ID)
	subscriptionParams.AddMetadata(MetadataTotalInvestmentAmount, product.Metadata[MetadataTotalInvestmentAmount])
	subscriptionParams.AddMetadata(MetadataMonthlyAmount, product.Metadata[MetadataMonthlyAmount])

	subscription, err := s.gateway.CreateSubscription(subscriptionParams)
	if err != nil {
		return nil, err
	}

	// The first charge is always derived from the plan's declared
	// monthly amount, never from anything the client supplied.
	monthlyAmount, err := monthlyAmountFromProduct(product)
	if err != nil {
		return nil, err
	}

	intentParams := &stripeapi.PaymentIntentParams{
		Amount:             stripeapi.Int64(monthlyAmount),
		Currency:           stripeapi.String(s.config.Currency),
		Customer:           stripeapi.String(customer.ID),
		PaymentMethodTypes: stripeapi.StringSlice([]string{DefaultPaymentMethodType}),
	}
	intentParams.AddMetadata(MetadataSubscriptionID, subscription.ID)
	intentParams.AddMetadata(MetadataFirstInstallment, "true")

	intent, err := s.gateway.CreatePaymentIntent(intentParams)
	if err != nil {
		return nil, err
	}

	log.Infow("subscription created",
		"subscription", subscription.ID, "customer", customer.ID,
		"product", product.ID, "firstInstallmentAmount", monthlyAmount)

	return &SubscriptionResult{
		SubscriptionID: subscription.ID,
		ClientSecret:   intent.ClientSecret,
		CustomerID:     customer.ID,
	}, nil
}

// CreatePaymentIntent creates a standalone card payment intent and
// returns its client secret.
func (s *Service) CreatePaymentIntent(params *PaymentIntentParams) (string, error) {
	currency := params.Currency
	if currency == "" {
		currency = s.config.Currency
	}

	intentParams := &stripeapi.PaymentIntentParams{
		Amount:             stripeapi.Int64(params.Amount),
		Currency:           stripeapi.String(currency),
		PaymentMethodTypes: stripeapi.StringSlice([]string{DefaultPaymentMethodType}),
	}
	for key, value := range params.Metadata {
		intentParams.AddMetadata(key, value)
	}

	intent, err := s.gateway.CreatePaymentIntent(intentParams)
	if err != nil {
		return "", err
	}

	log.Infow("payment intent created", "intent", intent.ID, "amount", params.Amount)
	return intent.ClientSecret, nil
}

// monthlyAmountFromProduct parses the monthly amount snapshotted in the
// product metadata. A missing entry yields 0.
func monthlyAmountFromProduct(product *stripeapi.Product) (int64, error) {
	raw := product.Metadata[MetadataMonthlyAmount]
	if raw == "" {
		return 0, nil
	}
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, NewStripeError("invalid_metadata",
			fmt.Sprintf("product %s has a malformed monthly amount", product.ID), err)
	}
	return amount, nil
}
