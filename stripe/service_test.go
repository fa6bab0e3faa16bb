package stripe

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/invespay/payments-backend/test"
	stripeapi "github.com/stripe/stripe-go/v81"
)

func testService(t *testing.T, gateway Gateway) *Service {
	t.Helper()
	service, err := NewService(&Config{
		APIKey:        "sk_test_xxx",
		WebhookSecret: "whsec_test",
		Currency:      DefaultCurrency,
	}, gateway)
	qt.Assert(t, err, qt.IsNil)
	return service
}

func TestNewServiceValidation(t *testing.T) {
	c := qt.New(t)

	_, err := NewService(nil, test.NewGateway("whsec_test"))
	c.Assert(err, qt.IsNotNil)

	_, err = NewService(&Config{}, nil)
	c.Assert(err, qt.IsNotNil)
}

func TestCreateInstallmentPlan(t *testing.T) {
	c := qt.New(t)
	gateway := test.NewGateway("whsec_test")
	service := testService(t, gateway)

	plan, err := service.CreateInstallmentPlan(&PlanParams{
		MonthlyAmount:    5000,
		InvestmentAmount: 60000,
		CustomerName:     "Alice Tan",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(plan.ProductID, qt.Not(qt.Equals), "")
	c.Assert(plan.PriceID, qt.Not(qt.Equals), "")

	c.Assert(gateway.ProductParams, qt.HasLen, 1)
	productParams := gateway.ProductParams[0]
	c.Assert(*productParams.Name, qt.Equals, "Investment Installment Plan - Alice Tan")
	c.Assert(productParams.Metadata[MetadataMonthlyAmount], qt.Equals, "5000")
	c.Assert(productParams.Metadata[MetadataTotalInvestmentAmount], qt.Equals, "60000")
	c.Assert(productParams.Metadata[MetadataCustomerName], qt.Equals, "Alice Tan")

	c.Assert(gateway.PriceParams, qt.HasLen, 1)
	priceParams := gateway.PriceParams[0]
	c.Assert(*priceParams.Product, qt.Equals, plan.ProductID)
	c.Assert(*priceParams.UnitAmount, qt.Equals, int64(5000))
	c.Assert(*priceParams.Currency, qt.Equals, DefaultCurrency)
	c.Assert(*priceParams.Recurring.Interval, qt.Equals, string(stripeapi.PriceRecurringIntervalMonth))
	c.Assert(*priceParams.Recurring.IntervalCount, qt.Equals, int64(1))
}

func TestCreateInstallmentPlanCurrencyOverride(t *testing.T) {
	c := qt.New(t)
	gateway := test.NewGateway("whsec_test")
	service := testService(t, gateway)

	_, err := service.CreateInstallmentPlan(&PlanParams{
		MonthlyAmount:    1000,
		InvestmentAmount: 12000,
		Currency:         "usd",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(*gateway.PriceParams[0].Currency, qt.Equals, "usd")
}

func TestCreateInstallmentPlanProductFailure(t *testing.T) {
	c := qt.New(t)
	gateway := test.NewGateway("whsec_test")
	gateway.Fail[test.CallCreateProduct] = &stripeapi.Error{Msg: "No such account"}
	service := testService(t, gateway)

	_, err := service.CreateInstallmentPlan(&PlanParams{MonthlyAmount: 5000, InvestmentAmount: 60000})
	c.Assert(err, qt.IsNotNil)
	// the price call never happens once the product creation failed
	c.Assert(gateway.CallCount(test.CallCreatePrice), qt.Equals, 0)
}

func TestCreateSubscription(t *testing.T) {
	c := qt.New(t)
	gateway := test.NewGateway("whsec_test")
	gateway.SeedPlan("prod_plan", "price_plan", map[string]string{
		MetadataMonthlyAmount:         "5000",
		MetadataTotalInvestmentAmount: "60000",
	})
	service := testService(t, gateway)

	result, err := service.CreateSubscription(&SubscriptionParams{
		PriceID:         "price_plan",
		CustomerName:    "Alice Tan",
		PaymentMethodID: "pm_card_visa",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(result.SubscriptionID, qt.Not(qt.Equals), "")
	c.Assert(result.ClientSecret, qt.Not(qt.Equals), "")
	c.Assert(result.CustomerID, qt.Not(qt.Equals), "")

	// the five gateway steps run in strict order
	c.Assert(gateway.Calls, qt.DeepEquals, []string{
		test.CallGetPrice,
		test.CallGetProduct,
		test.CallCreateCustomer,
		test.CallUpdateCustomer,
		test.CallCreateSubscription,
		test.CallCreatePaymentIntent,
	})

	customerParams := gateway.CustomerParams[0]
	c.Assert(*customerParams.Name, qt.Equals, "Alice Tan")
	c.Assert(*customerParams.PaymentMethod, qt.Equals, "pm_card_visa")
	c.Assert(customerParams.Metadata[MetadataMonthlyAmount], qt.Equals, "5000")
	c.Assert(customerParams.Metadata[MetadataTotalInvestmentAmount], qt.Equals, "60000")

	update := gateway.CustomerUpdates[0]
	c.Assert(*update.InvoiceSettings.DefaultPaymentMethod, qt.Equals, "pm_card_visa")

	subscriptionParams := gateway.SubscriptionParams[0]
	c.Assert(*subscriptionParams.Customer, qt.Equals, result.CustomerID)
	c.Assert(*subscriptionParams.Items[0].Price, qt.Equals, "price_plan")
	c.Assert(*subscriptionParams.PaymentSettings.PaymentMethodTypes[0], qt.Equals, "card")
	c.Assert(*subscriptionParams.PaymentSettings.SaveDefaultPaymentMethod, qt.Equals,
		string(stripeapi.SubscriptionPaymentSettingsSaveDefaultPaymentMethodOnSubscription))
	c.Assert(subscriptionParams.Metadata[MetadataProductID], qt.Equals, "prod_plan")

	// first installment is charged from the plan metadata, not from
	// anything the caller supplied
	intentParams := gateway.PaymentIntentParams[0]
	c.Assert(*intentParams.Amount, qt.Equals, int64(5000))
	c.Assert(*intentParams.Currency, qt.Equals, DefaultCurrency)
	c.Assert(*intentParams.Customer, qt.Equals, result.CustomerID)
	c.Assert(intentParams.Metadata[MetadataSubscriptionID], qt.Equals, result.SubscriptionID)
	c.Assert(intentParams.Metadata[MetadataFirstInstallment], qt.Equals, "true")
}

func TestCreateSubscriptionWithoutPaymentMethod(t *testing.T) {
	c := qt.New(t)
	gateway := test.NewGateway("whsec_test")
	gateway.SeedPlan("prod_plan", "price_plan", map[string]string{
		MetadataMonthlyAmount:         "5000",
		MetadataTotalInvestmentAmount: "60000",
	})
	service := testService(t, gateway)

	// an empty payment method ID is passed through, not rejected; the
	// gateway is the one that eventually complains
	_, err := service.CreateSubscription(&SubscriptionParams{
		PriceID:      "price_plan",
		CustomerName: "Bob Lim",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(gateway.CallCount(test.CallCreateCustomer), qt.Equals, 1)
	c.Assert(gateway.CustomerParams[0].PaymentMethod, qt.IsNil)
	c.Assert(gateway.CustomerUpdates[0].InvoiceSettings.DefaultPaymentMethod, qt.IsNil)
}

func TestCreateSubscriptionMissingMonthlyAmount(t *testing.T) {
	c := qt.New(t)
	gateway := test.NewGateway("whsec_test")
	gateway.SeedPlan("prod_plan", "price_plan", map[string]string{
		MetadataTotalInvestmentAmount: "60000",
	})
	service := testService(t, gateway)

	_, err := service.CreateSubscription(&SubscriptionParams{PriceID: "price_plan"})
	c.Assert(err, qt.IsNil)
	// absent metadata yields a zero-amount first installment
	c.Assert(*gateway.PaymentIntentParams[0].Amount, qt.Equals, int64(0))
}

func TestCreateSubscriptionMalformedMonthlyAmount(t *testing.T) {
	c := qt.New(t)
	gateway := test.NewGateway("whsec_test")
	gateway.SeedPlan("prod_plan", "price_plan", map[string]string{
		MetadataMonthlyAmount: "not-a-number",
	})
	service := testService(t, gateway)

	_, err := service.CreateSubscription(&SubscriptionParams{PriceID: "price_plan"})
	c.Assert(err, qt.IsNotNil)
	c.Assert(gateway.CallCount(test.CallCreatePaymentIntent), qt.Equals, 0)
}

func TestCreateSubscriptionNoRollback(t *testing.T) {
	c := qt.New(t)
	gateway := test.NewGateway("whsec_test")
	gateway.SeedPlan("prod_plan", "price_plan", map[string]string{
		MetadataMonthlyAmount: "5000",
	})
	gateway.Fail[test.CallCreateSubscription] = &stripeapi.Error{Msg: "Your card was declined."}
	service := testService(t, gateway)

	_, err := service.CreateSubscription(&SubscriptionParams{PriceID: "price_plan"})
	c.Assert(err, qt.IsNotNil)
	// the customer created in step three is left behind: no
	// compensation call of any kind follows the failure
	c.Assert(gateway.Calls, qt.DeepEquals, []string{
		test.CallGetPrice,
		test.CallGetProduct,
		test.CallCreateCustomer,
		test.CallUpdateCustomer,
		test.CallCreateSubscription,
	})
}

func TestCreatePaymentIntent(t *testing.T) {
	c := qt.New(t)
	gateway := test.NewGateway("whsec_test")
	service := testService(t, gateway)

	clientSecret, err := service.CreatePaymentIntent(&PaymentIntentParams{
		Amount:   2500,
		Metadata: map[string]string{"order_id": "ord_42"},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(clientSecret, qt.Not(qt.Equals), "")

	intentParams := gateway.PaymentIntentParams[0]
	c.Assert(*intentParams.Amount, qt.Equals, int64(2500))
	c.Assert(*intentParams.Currency, qt.Equals, DefaultCurrency)
	c.Assert(*intentParams.PaymentMethodTypes[0], qt.Equals, "card")
	c.Assert(intentParams.Metadata["order_id"], qt.Equals, "ord_42")
}

func TestMonthlyAmountFromProduct(t *testing.T) {
	c := qt.New(t)

	amount, err := monthlyAmountFromProduct(&stripeapi.Product{
		ID:       "prod_1",
		Metadata: map[string]string{MetadataMonthlyAmount: "1234"},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(amount, qt.Equals, int64(1234))

	amount, err = monthlyAmountFromProduct(&stripeapi.Product{ID: "prod_2"})
	c.Assert(err, qt.IsNil)
	c.Assert(amount, qt.Equals, int64(0))

	_, err = monthlyAmountFromProduct(&stripeapi.Product{
		ID:       "prod_3",
		Metadata: map[string]string{MetadataMonthlyAmount: "5,000"},
	})
	c.Assert(err, qt.IsNotNil)
}
