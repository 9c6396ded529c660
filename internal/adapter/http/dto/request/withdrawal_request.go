package request

type WithdrawalRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}
