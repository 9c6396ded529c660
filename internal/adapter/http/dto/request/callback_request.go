package request

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"mobilepay_ledger/internal/usecase"
)

// CallbackEnvelope is the gateway's asynchronous push result:
//
//	{"Body":{"stkCallback":{"MerchantRequestID":"...","CheckoutRequestID":"...",
//	  "ResultCode":0,"ResultDesc":"...","CallbackMetadata":{"Item":[{"Name":"Amount","Value":1000}]}}}}
type CallbackEnvelope struct {
	Body struct {
		StkCallback StkCallback `json:"stkCallback"`
	} `json:"Body"`
}

type StkCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        json.Number       `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

type CallbackMetadata struct {
	Item []CallbackItem `json:"Item"`
}

type CallbackItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value,omitempty"`
}

// ParseCallback decodes an envelope, keeping numbers exact.
func ParseCallback(raw []byte) (CallbackEnvelope, error) {
	var env CallbackEnvelope
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return CallbackEnvelope{}, err
	}
	return env, nil
}

func (e CallbackEnvelope) ToCallbackResult(raw []byte) usecase.CallbackResult {
	cb := e.Body.StkCallback
	code, err := strconv.Atoi(strings.TrimSpace(cb.ResultCode.String()))
	unreadable := err != nil
	amount, _ := strconv.ParseFloat(cb.item("Amount"), 64)
	return usecase.CallbackResult{
		MerchantRequestID: strings.TrimSpace(cb.MerchantRequestID),
		CheckoutRequestID: strings.TrimSpace(cb.CheckoutRequestID),
		ResultCode:        code,
		ResultDesc:        cb.ResultDesc,
		Receipt:           cb.item("MpesaReceiptNumber"),
		Amount:            int64(amount),
		Phone:             cb.item("PhoneNumber"),
		Raw:               raw,
		CodeUnreadable:    unreadable,
	}
}

// item returns a metadata value as text whether the gateway sent it as a
// JSON string or a number.
func (c StkCallback) item(name string) string {
	if c.CallbackMetadata == nil {
		return ""
	}
	for _, it := range c.CallbackMetadata.Item {
		if it.Name != name || len(it.Value) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(it.Value, &s); err == nil {
			return strings.TrimSpace(s)
		}
		return strings.TrimSpace(string(it.Value))
	}
	return ""
}
