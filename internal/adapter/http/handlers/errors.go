package handlers

import (
	"errors"
	"net/http"

	"mobilepay_ledger/internal/usecase"
	"mobilepay_ledger/internal/usecase/interfaces"
	"mobilepay_ledger/pkg"
)

func mapLedgerError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidPhone):
		return pkg.NewDomainErrorSimple("INVALID_PHONE", "Phone number must be a valid mobile money number", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidAmount), errors.Is(err, usecase.ErrAmountRequired):
		return pkg.NewDomainErrorSimple("INVALID_AMOUNT", "Amount must be a positive whole number", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrEmptyCart), errors.Is(err, usecase.ErrInvalidQuantity),
		errors.Is(err, usecase.ErrMissingPod), errors.Is(err, usecase.ErrMissingIntentID),
		errors.Is(err, usecase.ErrCurrencyMismatch):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrMissingUser):
		return pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Missing user identity", http.StatusUnauthorized)

	case errors.Is(err, interfaces.ErrIntentNotFound):
		return pkg.NewDomainErrorSimple("INTENT_NOT_FOUND", "Payment intent not found", http.StatusNotFound)
	case errors.Is(err, interfaces.ErrIntentExpired):
		return pkg.NewDomainErrorSimple("INTENT_EXPIRED", "Payment intent expired, start checkout again", http.StatusGone)
	case errors.Is(err, usecase.ErrIntentNotOwned):
		return pkg.NewDomainErrorSimple("FORBIDDEN", "Payment intent belongs to another user", http.StatusForbidden)
	case errors.Is(err, interfaces.ErrAmountAlreadyBound):
		return pkg.NewDomainErrorSimple("AMOUNT_ALREADY_BOUND", "Amount differs from the checkout amount", http.StatusConflict)
	case errors.Is(err, interfaces.ErrInvalidTransition):
		return pkg.NewDomainErrorSimple("INVALID_TRANSITION", "Payment intent cannot be initiated in its current state", http.StatusConflict)
	case errors.Is(err, interfaces.ErrInitiationInProgress):
		return pkg.NewDomainErrorSimple("INITIATION_IN_PROGRESS", "A payment prompt is already being sent", http.StatusConflict)
	case errors.Is(err, usecase.ErrIntentNotInitiated):
		return pkg.NewDomainErrorSimple("INTENT_NOT_INITIATED", "Payment has not been initiated yet", http.StatusConflict)

	case errors.Is(err, interfaces.ErrProductNotFound):
		return pkg.NewDomainErrorSimple("PRODUCT_NOT_FOUND", "Product not found", http.StatusNotFound)
	case errors.Is(err, interfaces.ErrProductInactive):
		return pkg.NewDomainErrorSimple("PRODUCT_UNAVAILABLE", "Product is not available", http.StatusConflict)
	case errors.Is(err, interfaces.ErrInsufficientStock):
		return pkg.NewDomainErrorSimple("INSUFFICIENT_STOCK", "Not enough stock for the requested quantity", http.StatusConflict)
	case errors.Is(err, interfaces.ErrPodNotFound):
		return pkg.NewDomainErrorSimple("POD_NOT_FOUND", "Savings pod not found", http.StatusNotFound)
	case errors.Is(err, interfaces.ErrPodInactive):
		return pkg.NewDomainErrorSimple("POD_INACTIVE", "Savings pod is not active", http.StatusConflict)
	case errors.Is(err, interfaces.ErrNotPodMember):
		return pkg.NewDomainErrorSimple("NOT_POD_MEMBER", "User is not an active member of this pod", http.StatusForbidden)
	case errors.Is(err, interfaces.ErrInsufficientMemberBalance):
		return pkg.NewDomainErrorSimple("INSUFFICIENT_MEMBER_BALANCE", "Withdrawal exceeds your available balance", http.StatusUnprocessableEntity)
	case errors.Is(err, interfaces.ErrInsufficientPodBalance):
		return pkg.NewDomainErrorSimple("INSUFFICIENT_POD_BALANCE", "Withdrawal exceeds the pod balance", http.StatusUnprocessableEntity)

	case errors.Is(err, interfaces.ErrGatewayThrottled):
		return pkg.NewDomainErrorSimple("GATEWAY_THROTTLED", "Payment network is busy, try again shortly", http.StatusTooManyRequests)
	case errors.Is(err, interfaces.ErrGatewayTransient):
		return pkg.NewDomainError("GATEWAY_UNAVAILABLE", "Payment network unavailable, try again", err, http.StatusServiceUnavailable)
	case errors.Is(err, interfaces.ErrGatewayRejected):
		return pkg.NewDomainError("GATEWAY_REJECTED", "Payment network rejected the request", err, http.StatusBadGateway)
	case errors.Is(err, interfaces.ErrGatewayUnauthorized), errors.Is(err, interfaces.ErrGatewayMalformed):
		return pkg.NewDomainError("GATEWAY_ERROR", "Payment network error", err, http.StatusBadGateway)

	case errors.Is(err, usecase.ErrLedgerApplyFailed):
		return pkg.NewDomainError("LEDGER_APPLY_FAILED", "Payment confirmed but could not be applied, support has been notified", err, http.StatusInternalServerError)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
