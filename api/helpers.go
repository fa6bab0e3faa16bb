package api

import (
	"encoding/json"
	"net/http"

	"github.com/invespay/payments-backend/errors"
	"github.com/invespay/payments-backend/stripe"
	"go.vocdoni.io/dvote/log"
)

// httpWriteJSON helper function allows to write a JSON response.
func httpWriteJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

// writeServiceError maps a stripe service failure onto the API error
// taxonomy: processor-reported failures pass through verbatim with
// status 403, anything else becomes a generic 500 with no internal
// detail disclosed.
func writeServiceError(w http.ResponseWriter, err error) {
	if msg, ok := stripe.GatewayMessage(err); ok {
		errors.GatewayRejected(msg).Write(w)
		return
	}
	log.Errorw(err, "payment gateway service failed")
	errors.ErrGenericInternalServerError.Write(w)
}
