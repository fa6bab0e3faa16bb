// Package api provides the HTTP API for the installment-plan payments
// backend: plan product/price creation, subscription setup, one-off
// payment intents and the Stripe webhook endpoint.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/invespay/payments-backend/stripe"
	"github.com/invespay/payments-backend/validator"
	"go.vocdoni.io/dvote/log"
)

// Config holds the dependencies and settings for the API HTTP server.
type Config struct {
	Host   string
	Port   int
	Stripe *stripe.Service
}

// API type represents the API HTTP server.
type API struct {
	host      string
	port      int
	router    *chi.Mux
	stripe    *stripe.Service
	validator *validator.Validator
}

// New creates a new API HTTP server. It does not start the server. Use Start() for that.
func New(conf *Config) *API {
	if conf == nil {
		return nil
	}
	return &API{
		host:      conf.Host,
		port:      conf.Port,
		stripe:    conf.Stripe,
		validator: validator.New(),
	}
}

// Start starts the API HTTP server (non blocking).
func (a *API) Start() {
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", a.host, a.port), a.initRouter()); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() http.Handler {
	// Create the router with a basic middleware stack
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Throttle(100))
	r.Use(middleware.Timeout(45 * time.Second))

	r.Group(func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			if _, err := w.Write([]byte(".")); err != nil {
				log.Warnw("failed to write ping response", "error", err)
			}
		})
		// create an installment plan product and its monthly price
		log.Infow("new route", "method", "POST", "path", planProductEndpoint)
		r.Post(planProductEndpoint, a.createPlanProductHandler)
		// subscribe a customer to an existing plan price
		log.Infow("new route", "method", "POST", "path", subscriptionEndpoint)
		r.Post(subscriptionEndpoint, a.createSubscriptionHandler)
		// create a standalone payment intent
		log.Infow("new route", "method", "POST", "path", paymentIntentEndpoint)
		r.Post(paymentIntentEndpoint, a.createPaymentIntentHandler)
		// handle stripe webhook
		log.Infow("new route", "method", "POST", "path", webhookEndpoint)
		r.Post(webhookEndpoint, a.handleWebhook)
	})

	a.router = r
	return r
}
