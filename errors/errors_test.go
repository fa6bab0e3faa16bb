package errors

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestMarshalJSON(t *testing.T) {
	c := qt.New(t)

	body, err := json.Marshal(ErrMissingAmount)
	c.Assert(err, qt.IsNil)
	c.Assert(string(body), qt.Equals, `{"error":"amount is required","code":40004}`)
}

func TestWrite(t *testing.T) {
	c := qt.New(t)

	w := httptest.NewRecorder()
	ErrMissingPriceID.Write(w)
	c.Assert(w.Code, qt.Equals, ErrMissingPriceID.HTTPstatus)

	var got struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	c.Assert(json.Unmarshal(w.Body.Bytes(), &got), qt.IsNil)
	c.Assert(got.Code, qt.Equals, ErrMissingPriceID.Code)
	c.Assert(got.Error, qt.Equals, ErrMissingPriceID.Error())
}

func TestWithErr(t *testing.T) {
	c := qt.New(t)

	wrapped := ErrInvalidRequestData.WithErr(fmt.Errorf("field Currency failed validation"))
	c.Assert(wrapped.Code, qt.Equals, ErrInvalidRequestData.Code)
	c.Assert(wrapped.HTTPstatus, qt.Equals, ErrInvalidRequestData.HTTPstatus)
	c.Assert(wrapped.Error(), qt.Equals, "invalid request data provided: field Currency failed validation")
}

func TestGatewayRejected(t *testing.T) {
	c := qt.New(t)

	rejection := GatewayRejected("Your card was declined.")
	c.Assert(rejection.HTTPstatus, qt.Equals, 403)
	// the processor message must survive untouched, with no prefix
	c.Assert(rejection.Error(), qt.Equals, "Your card was declined.")

	body, err := json.Marshal(rejection)
	c.Assert(err, qt.IsNil)
	c.Assert(string(body), qt.Equals, `{"error":"Your card was declined.","code":40301}`)
}
