package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mobilepay_ledger/internal/adapter/http/handlers/mocks"
	"mobilepay_ledger/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type failingReadCloser struct{}

func (failingReadCloser) Read(_ []byte) (int, error) { return 0, errors.New("read error") }
func (failingReadCloser) Close() error               { return nil }

const successEnvelope = `{"Body":{"stkCallback":{"MerchantRequestID":"29115-34620561-1","CheckoutRequestID":"ws_CO_191220191020363925","ResultCode":0,"ResultDesc":"The service request is processed successfully.","CallbackMetadata":{"Item":[{"Name":"Amount","Value":1000.00},{"Name":"MpesaReceiptNumber","Value":"NLJ7RT61SV"},{"Name":"PhoneNumber","Value":254708374149}]}}}}`

func assertAccepted(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var ack struct {
		ResultCode int    `json:"ResultCode"`
		ResultDesc string `json:"ResultDesc"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ack.ResultCode != 0 || ack.ResultDesc != "Accepted" {
		t.Fatalf("unexpected ack %+v", ack)
	}
}

func TestCallbackHandler_HandleCallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success envelope", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		reconciler := mocks.NewMockIReconcilerUseCase(ctrl)
		h := NewCallbackHandler(reconciler, zap.NewNop())

		reconciler.EXPECT().HandleCallback(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, cb usecase.CallbackResult) error {
			if cb.CheckoutRequestID != "ws_CO_191220191020363925" || cb.Receipt != "NLJ7RT61SV" || cb.Amount != 1000 {
				t.Fatalf("unexpected callback %+v", cb)
			}
			if !cb.Succeeded() || string(cb.Raw) != successEnvelope {
				t.Fatalf("expected raw success envelope")
			}
			return nil
		})

		r := gin.New()
		r.POST("/v1/payments/callback", h.HandleCallback)
		assertAccepted(t, doJSON(r, http.MethodPost, "/v1/payments/callback", successEnvelope, ""))
	})

	t.Run("internal failure is still acknowledged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		reconciler := mocks.NewMockIReconcilerUseCase(ctrl)
		h := NewCallbackHandler(reconciler, zap.NewNop())

		reconciler.EXPECT().HandleCallback(gomock.Any(), gomock.Any()).Return(usecase.ErrLedgerApplyFailed)

		r := gin.New()
		r.POST("/v1/payments/callback", h.HandleCallback)
		assertAccepted(t, doJSON(r, http.MethodPost, "/v1/payments/callback", successEnvelope, ""))
	})

	t.Run("malformed body is acknowledged without processing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := NewCallbackHandler(mocks.NewMockIReconcilerUseCase(ctrl), zap.NewNop())

		r := gin.New()
		r.POST("/v1/payments/callback", h.HandleCallback)
		assertAccepted(t, doJSON(r, http.MethodPost, "/v1/payments/callback", "{", ""))
	})

	t.Run("unreadable body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := NewCallbackHandler(mocks.NewMockIReconcilerUseCase(ctrl), zap.NewNop())

		r := gin.New()
		r.POST("/v1/payments/callback", h.HandleCallback)
		req := httptest.NewRequest(http.MethodPost, "/v1/payments/callback", bytes.NewBufferString(""))
		req.Body = failingReadCloser{}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assertAccepted(t, w)
	})
}
