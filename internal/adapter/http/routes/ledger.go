package routes

import (
	"mobilepay_ledger/internal/adapter/http/handlers"
	"mobilepay_ledger/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

const (
	PathCheckout = "/checkout"
	PathPayments = "/payments"
	PathPods     = "/pods"
)

func addCheckoutRoutes(rg *gin.RouterGroup, h *handlers.CheckoutHandler) {
	checkout := rg.Group(PathCheckout, middleware.RequireUser())
	{
		checkout.POST("/purchase", h.CreatePurchaseCheckout)
		checkout.POST("/contribution", h.CreateContributionCheckout)
		checkout.POST("/:intent_id/initiate", h.Initiate)
		checkout.GET("/:intent_id/status", h.Status)
		checkout.POST("/:intent_id/refresh", h.Refresh)
	}
}

// The gateway calls the webhook without user identity.
func addPaymentRoutes(rg *gin.RouterGroup, h *handlers.CallbackHandler) {
	payments := rg.Group(PathPayments)
	{
		payments.POST("/callback", h.HandleCallback)
	}
}

func addPodRoutes(rg *gin.RouterGroup, h *handlers.WithdrawalHandler) {
	pods := rg.Group(PathPods, middleware.RequireUser())
	{
		pods.POST("/:pod_id/withdrawals", h.RequestWithdrawal)
		pods.GET("/:pod_id/members/:user_id/balance", h.GetMemberBalance)
	}
}
