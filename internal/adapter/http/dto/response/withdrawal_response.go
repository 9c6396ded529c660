package response

import (
	"time"

	"mobilepay_ledger/internal/usecase"
)

type MemberBalanceResponse struct {
	PodID            string `json:"pod_id"`
	UserID           string `json:"user_id"`
	Available        int64  `json:"available"`
	TotalContributed int64  `json:"total_contributed"`
	TotalWithdrawn   int64  `json:"total_withdrawn"`
	PodBalance       int64  `json:"pod_balance"`
	Currency         string `json:"currency"`
}

func FromMemberBalance(b usecase.MemberBalance) MemberBalanceResponse {
	return MemberBalanceResponse{
		PodID:            b.PodID,
		UserID:           b.UserID,
		Available:        b.Available,
		TotalContributed: b.TotalContributed,
		TotalWithdrawn:   b.TotalWithdrawn,
		PodBalance:       b.PodBalance,
		Currency:         b.Currency,
	}
}

type WithdrawalResponse struct {
	WithdrawalID string                `json:"withdrawal_id"`
	Amount       int64                 `json:"amount"`
	Status       string                `json:"status"`
	CreatedAt    time.Time             `json:"created_at"`
	Balance      MemberBalanceResponse `json:"balance"`
}

func FromWithdrawalReceipt(r usecase.WithdrawalReceipt) WithdrawalResponse {
	return WithdrawalResponse{
		WithdrawalID: r.Withdrawal.ID,
		Amount:       r.Withdrawal.Amount,
		Status:       string(r.Withdrawal.Status),
		CreatedAt:    r.Withdrawal.CreatedAt,
		Balance:      FromMemberBalance(r.Balance),
	}
}
