package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/invespay/payments-backend/api"
	"github.com/invespay/payments-backend/stripe"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.vocdoni.io/dvote/log"
)

func main() {
	log.Init("debug", "stdout", nil)
	// define flags
	flag.StringP("host", "h", "0.0.0.0", "listen address")
	flag.IntP("port", "p", 8080, "listen port")
	flag.String("stripeApiSecret", "", "Stripe API secret key")
	flag.String("stripeWebhookSecret", "", "Stripe webhook signing secret")
	flag.String("currency", stripe.DefaultCurrency, "default currency for amounts in minor units")
	// parse flags
	flag.Parse()
	// initialize Viper
	viper.SetEnvPrefix("INVESPAY")
	if err := viper.BindPFlags(flag.CommandLine); err != nil {
		panic(err)
	}
	viper.AutomaticEnv()
	// read the configuration
	host := viper.GetString("host")
	port := viper.GetInt("port")
	stripeAPISecret := viper.GetString("stripeApiSecret")
	stripeWebhookSecret := viper.GetString("stripeWebhookSecret")
	currency := viper.GetString("currency")
	if stripeAPISecret == "" {
		log.Fatal("stripeApiSecret is required")
	}
	if stripeWebhookSecret == "" {
		log.Fatal("stripeWebhookSecret is required")
	}
	// create the Stripe gateway client and the service on top of it
	stripeConfig := &stripe.Config{
		APIKey:        stripeAPISecret,
		WebhookSecret: stripeWebhookSecret,
		Currency:      currency,
	}
	stripeService, err := stripe.NewService(stripeConfig, stripe.NewClient(stripeConfig))
	if err != nil {
		log.Fatalf("could not create the Stripe service: %v", err)
	}
	// create the local API server
	api.New(&api.Config{
		Host:   host,
		Port:   port,
		Stripe: stripeService,
	}).Start()
	// wait forever, as the server is running in a goroutine
	log.Infow("server started", "host", host, "port", port)
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
