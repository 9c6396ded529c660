package handlers

import (
	"net/http"

	"mobilepay_ledger/internal/adapter/http/dto/request"
	"mobilepay_ledger/internal/adapter/http/dto/response"
	"mobilepay_ledger/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CallbackHandler receives the gateway webhook. The gateway keeps retrying
// until it sees the fixed acknowledgement, so every outcome is acknowledged
// and internal failures are only logged.
type CallbackHandler struct {
	reconciler usecase.IReconcilerUseCase
	logger     *zap.Logger
}

func NewCallbackHandler(reconciler usecase.IReconcilerUseCase, logger *zap.Logger) *CallbackHandler {
	return &CallbackHandler{reconciler: reconciler, logger: logger.With(zap.String("handler", "callback"))}
}

// HandleCallback godoc
// @Summary Payment network result webhook
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} response.CallbackAck
// @Router /v1/payments/callback [post]
func (h *CallbackHandler) HandleCallback(c *gin.Context) {
	h.process(c)
	c.JSON(http.StatusOK, response.AcceptedCallback())
}

func (h *CallbackHandler) process(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		h.logger.Error("read callback body", zap.Error(err))
		return
	}
	envelope, err := request.ParseCallback(raw)
	if err != nil {
		h.logger.Warn("malformed callback", zap.Error(err), zap.Int("bytes", len(raw)))
		return
	}

	cb := envelope.ToCallbackResult(raw)
	if err := h.reconciler.HandleCallback(c.Request.Context(), cb); err != nil {
		h.logger.Error("callback not processed",
			zap.String("checkout_request_id", cb.CheckoutRequestID),
			zap.Int("result_code", cb.ResultCode),
			zap.Error(err))
		return
	}
	h.logger.Info("callback processed",
		zap.String("checkout_request_id", cb.CheckoutRequestID),
		zap.Int("result_code", cb.ResultCode))
}
