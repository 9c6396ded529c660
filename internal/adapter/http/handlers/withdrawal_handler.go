package handlers

import (
	"net/http"

	"mobilepay_ledger/internal/adapter/http/dto/request"
	"mobilepay_ledger/internal/adapter/http/dto/response"
	"mobilepay_ledger/internal/adapter/http/middleware"
	"mobilepay_ledger/internal/usecase"
	"mobilepay_ledger/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WithdrawalHandler struct {
	usecase usecase.IWithdrawalUseCase
	logger  *zap.Logger
}

func NewWithdrawalHandler(uc usecase.IWithdrawalUseCase, logger *zap.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{usecase: uc, logger: logger.With(zap.String("handler", "withdrawal"))}
}

// RequestWithdrawal godoc
// @Summary Withdraw from the caller's pod balance
// @Tags pods
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Param pod_id path string true "Pod ID"
// @Param body body request.WithdrawalRequest true "Amount"
// @Success 201 {object} response.WithdrawalResponse
// @Failure 403 {object} pkg.HTTPError
// @Failure 422 {object} pkg.HTTPError
// @Router /v1/pods/{pod_id}/withdrawals [post]
func (h *WithdrawalHandler) RequestWithdrawal(c *gin.Context) {
	var req request.WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidRequest(c)
		return
	}
	podID := c.Param("pod_id")
	userID := middleware.UserID(c)

	receipt, err := h.usecase.RequestWithdrawal(c.Request.Context(), podID, userID, req.Amount)
	if err != nil {
		appErr := mapLedgerError(err)
		logFailure(h.logger, "withdrawal", appErr, err,
			zap.String("pod_id", podID), zap.String("user_id", userID), zap.Int64("amount", req.Amount))
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	h.logger.Info("withdrawal approved",
		zap.String("pod_id", podID),
		zap.String("withdrawal_id", receipt.Withdrawal.ID),
		zap.Int64("amount", receipt.Withdrawal.Amount))
	c.JSON(http.StatusCreated, response.FromWithdrawalReceipt(receipt))
}

// GetMemberBalance godoc
// @Summary Read a member's available pod balance
// @Tags pods
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Param pod_id path string true "Pod ID"
// @Param user_id path string true "Member user ID"
// @Success 200 {object} response.MemberBalanceResponse
// @Failure 403 {object} pkg.HTTPError
// @Failure 404 {object} pkg.HTTPError
// @Router /v1/pods/{pod_id}/members/{user_id}/balance [get]
func (h *WithdrawalHandler) GetMemberBalance(c *gin.Context) {
	podID := c.Param("pod_id")
	memberID := c.Param("user_id")
	if memberID != middleware.UserID(c) {
		appErr := pkg.NewDomainErrorSimple("FORBIDDEN", "Members can only read their own balance", http.StatusForbidden)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	balance, err := h.usecase.GetMemberBalance(c.Request.Context(), podID, memberID)
	if err != nil {
		appErr := mapLedgerError(err)
		logFailure(h.logger, "member balance", appErr, err, zap.String("pod_id", podID), zap.String("user_id", memberID))
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromMemberBalance(balance))
}
