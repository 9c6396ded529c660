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

// CheckoutHandler serves checkout creation, payment initiation and the
// status/refresh endpoints the client polls while the prompt is open.
type CheckoutHandler struct {
	checkout   usecase.ICheckoutUseCase
	reconciler usecase.IReconcilerUseCase
	logger     *zap.Logger
}

func NewCheckoutHandler(checkout usecase.ICheckoutUseCase, reconciler usecase.IReconcilerUseCase, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, reconciler: reconciler, logger: logger.With(zap.String("handler", "checkout"))}
}

// CreatePurchaseCheckout godoc
// @Summary Create a marketplace checkout
// @Tags checkout
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Param body body request.PurchaseCheckoutRequest true "Cart"
// @Success 201 {object} response.CheckoutSessionResponse
// @Failure 400 {object} pkg.HTTPError
// @Failure 409 {object} pkg.HTTPError
// @Router /v1/checkout/purchase [post]
func (h *CheckoutHandler) CreatePurchaseCheckout(c *gin.Context) {
	var req request.PurchaseCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidRequest(c)
		return
	}
	userID := middleware.UserID(c)

	session, err := h.checkout.CreatePurchaseCheckout(c.Request.Context(), userID, req.CartItems())
	if err != nil {
		h.fail(c, "create purchase checkout", err, zap.String("user_id", userID))
		return
	}
	h.logger.Info("purchase checkout created", zap.String("intent_id", session.IntentID), zap.String("user_id", userID))
	c.JSON(http.StatusCreated, response.FromCheckoutSession(session))
}

// CreateContributionCheckout godoc
// @Summary Create a savings pod contribution checkout
// @Tags checkout
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Param body body request.ContributionCheckoutRequest true "Pod"
// @Success 201 {object} response.CheckoutSessionResponse
// @Failure 403 {object} pkg.HTTPError
// @Failure 404 {object} pkg.HTTPError
// @Router /v1/checkout/contribution [post]
func (h *CheckoutHandler) CreateContributionCheckout(c *gin.Context) {
	var req request.ContributionCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidRequest(c)
		return
	}
	userID := middleware.UserID(c)

	session, err := h.checkout.CreateContributionCheckout(c.Request.Context(), userID, req.PodID)
	if err != nil {
		h.fail(c, "create contribution checkout", err, zap.String("user_id", userID), zap.String("pod_id", req.PodID))
		return
	}
	h.logger.Info("contribution checkout created", zap.String("intent_id", session.IntentID), zap.String("pod_id", req.PodID))
	c.JSON(http.StatusCreated, response.FromCheckoutSession(session))
}

// Initiate godoc
// @Summary Send the payment prompt to the payer's phone
// @Tags checkout
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Param intent_id path string true "Intent ID"
// @Param body body request.InitiateRequest true "Payer"
// @Success 202 {object} response.IntentStatusResponse
// @Failure 400 {object} pkg.HTTPError
// @Failure 409 {object} pkg.HTTPError
// @Failure 410 {object} pkg.HTTPError
// @Failure 429 {object} pkg.HTTPError
// @Failure 503 {object} pkg.HTTPError
// @Router /v1/checkout/{intent_id}/initiate [post]
func (h *CheckoutHandler) Initiate(c *gin.Context) {
	var req request.InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidRequest(c)
		return
	}
	intentID := c.Param("intent_id")

	intent, err := h.checkout.Initiate(c.Request.Context(), intentID, middleware.UserID(c), req.Amount, req.Phone)
	if err != nil {
		h.fail(c, "initiate payment", err, zap.String("intent_id", intentID))
		return
	}
	h.logger.Info("payment prompt sent",
		zap.String("intent_id", intent.ID),
		zap.String("checkout_request_id", intent.CheckoutRequestID))
	c.JSON(http.StatusAccepted, response.FromPaymentIntent(intent))
}

// Status godoc
// @Summary Read the payment intent state
// @Tags checkout
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Param intent_id path string true "Intent ID"
// @Success 200 {object} response.IntentStatusResponse
// @Failure 404 {object} pkg.HTTPError
// @Router /v1/checkout/{intent_id}/status [get]
func (h *CheckoutHandler) Status(c *gin.Context) {
	intentID := c.Param("intent_id")

	intent, err := h.checkout.Status(c.Request.Context(), intentID, middleware.UserID(c))
	if err != nil {
		h.fail(c, "read intent status", err, zap.String("intent_id", intentID))
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentIntent(intent))
}

// Refresh godoc
// @Summary Ask the payment network for the intent outcome now
// @Tags checkout
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Param intent_id path string true "Intent ID"
// @Success 200 {object} response.RecheckResponse
// @Failure 404 {object} pkg.HTTPError
// @Failure 409 {object} pkg.HTTPError
// @Router /v1/checkout/{intent_id}/refresh [post]
func (h *CheckoutHandler) Refresh(c *gin.Context) {
	intentID := c.Param("intent_id")

	res, err := h.reconciler.Recheck(c.Request.Context(), intentID, middleware.UserID(c))
	if err != nil {
		h.fail(c, "recheck intent", err, zap.String("intent_id", intentID))
		return
	}
	c.JSON(http.StatusOK, response.FromRecheckResult(res))
}

func (h *CheckoutHandler) fail(c *gin.Context, op string, err error, fields ...zap.Field) {
	appErr := mapLedgerError(err)
	logFailure(h.logger, op, appErr, err, fields...)
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func writeInvalidRequest(c *gin.Context) {
	appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func logFailure(logger *zap.Logger, op string, appErr *pkg.AppError, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("code", appErr.Code), zap.Error(err))
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error(op+" failed", fields...)
		return
	}
	logger.Warn(op+" failed", fields...)
}
