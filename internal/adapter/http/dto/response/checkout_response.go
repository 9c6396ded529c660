package response

import (
	"time"

	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase"
)

type CheckoutSessionResponse struct {
	IntentID    string    `json:"intent_id"`
	RedirectURL string    `json:"redirect_url"`
	Amount      *int64    `json:"amount"`
	Currency    string    `json:"currency"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func FromCheckoutSession(s usecase.CheckoutSession) CheckoutSessionResponse {
	return CheckoutSessionResponse{
		IntentID:    s.IntentID,
		RedirectURL: s.RedirectURL,
		Amount:      s.Amount,
		Currency:    s.Currency,
		ExpiresAt:   s.ExpiresAt,
	}
}

type IntentStatusResponse struct {
	IntentID           string     `json:"intent_id"`
	Purpose            string     `json:"purpose"`
	Status             string     `json:"status"`
	Amount             *int64     `json:"amount"`
	Currency           string     `json:"currency"`
	CheckoutRequestID  string     `json:"checkout_request_id,omitempty"`
	Receipt            string     `json:"receipt,omitempty"`
	ResultCode         string     `json:"result_code,omitempty"`
	ResultDesc         string     `json:"result_desc,omitempty"`
	ConfirmationMethod string     `json:"confirmation_method,omitempty"`
	Applied            bool       `json:"applied"`
	AppliedAt          *time.Time `json:"applied_at,omitempty"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func FromPaymentIntent(in entities.PaymentIntent) IntentStatusResponse {
	r := IntentStatusResponse{
		IntentID:           in.ID,
		Purpose:            string(in.Purpose),
		Status:             string(in.Status),
		Amount:             in.Amount,
		Currency:           in.Currency,
		CheckoutRequestID:  in.CheckoutRequestID,
		Receipt:            in.Receipt,
		ResultCode:         in.ResultCode,
		ResultDesc:         in.ResultDesc,
		ConfirmationMethod: string(in.ConfirmationMethod),
		Applied:            in.Applied,
		AppliedAt:          in.AppliedAt,
		UpdatedAt:          in.UpdatedAt,
	}
	if !in.ExpiresAt.IsZero() {
		exp := in.ExpiresAt
		r.ExpiresAt = &exp
	}
	return r
}

// RecheckResponse reports one manual recheck. Throttled asks the client to
// retry shortly; it is not a failure.
type RecheckResponse struct {
	Intent    IntentStatusResponse `json:"intent"`
	Outcome   string               `json:"outcome,omitempty"`
	Throttled bool                 `json:"throttled"`
	Cached    bool                 `json:"cached"`
	Message   string               `json:"message"`
}

func FromRecheckResult(res usecase.RecheckResult) RecheckResponse {
	r := RecheckResponse{
		Intent:    FromPaymentIntent(res.Intent),
		Outcome:   string(res.Outcome),
		Throttled: res.Throttled,
		Cached:    res.Cached,
	}
	switch {
	case res.Throttled:
		r.Message = "Payment network is busy, try again shortly"
	case r.Intent.Applied:
		r.Message = "Payment confirmed"
	case res.Intent.Status == entities.IntentStatusFailed:
		r.Message = "Payment failed"
	default:
		r.Message = "Payment not confirmed yet"
	}
	return r
}
