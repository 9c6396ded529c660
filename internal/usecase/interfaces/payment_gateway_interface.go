package interfaces

import (
	"context"
	"errors"
)

var (
	// ErrGatewayTransient covers timeouts and 5xx: no state change, caller may retry.
	ErrGatewayTransient = errors.New("payment gateway temporarily unavailable")
	// ErrGatewayThrottled is a rate-limit response. It is never retried automatically.
	ErrGatewayThrottled = errors.New("payment gateway throttled")
	// ErrGatewayMalformed means the gateway answered with an unparsable body.
	ErrGatewayMalformed = errors.New("payment gateway malformed response")
	// ErrGatewayRejected is an explicit refusal of the request (4xx, non-zero response code).
	ErrGatewayRejected = errors.New("payment gateway rejected request")
	// ErrGatewayUnauthorized survives one credential refresh.
	ErrGatewayUnauthorized = errors.New("payment gateway unauthorized")
)

type PushRequest struct {
	Amount      int64
	Phone       string
	Route       string
	Reference   string
	Description string
	CallbackURL string
}

type PushResponse struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResponseCode      string
	ResponseDesc      string
	CustomerMessage   string
}

type QueryOutcome string

const (
	QueryOutcomePaid       QueryOutcome = "paid"
	QueryOutcomeNotYetPaid QueryOutcome = "not_yet_paid"
	QueryOutcomeFailed     QueryOutcome = "failed"
)

type QueryResult struct {
	Outcome           QueryOutcome
	ResultCode        string
	ResultDesc        string
	MerchantRequestID string
	CheckoutRequestID string
}

// IPaymentGateway abstracts the push-payment network.
//
// Implementations manage their own short-lived access credential.
type IPaymentGateway interface {
	RequestPush(ctx context.Context, req PushRequest) (PushResponse, error)
	QueryStatus(ctx context.Context, route, checkoutRequestID string) (QueryResult, error)
}
