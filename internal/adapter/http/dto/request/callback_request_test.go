package request

import (
	"context"
	"errors"
	"testing"
	"time"

	"mobilepay_ledger/internal/adapter/persistence/memory"
	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase"

	"go.uber.org/zap"
)

const successEnvelope = `{
  "Body": {
    "stkCallback": {
      "MerchantRequestID": "29115-34620561-1",
      "CheckoutRequestID": "ws_CO_191220191020363925",
      "ResultCode": 0,
      "ResultDesc": "The service request is processed successfully.",
      "CallbackMetadata": {
        "Item": [
          {"Name": "Amount", "Value": 1000.00},
          {"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
          {"Name": "Balance"},
          {"Name": "TransactionDate", "Value": 20191219102115},
          {"Name": "PhoneNumber", "Value": 254708374149}
        ]
      }
    }
  }
}`

func TestParseCallback(t *testing.T) {
	t.Run("success envelope", func(t *testing.T) {
		env, err := ParseCallback([]byte(successEnvelope))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		cb := env.ToCallbackResult([]byte(successEnvelope))
		if !cb.Succeeded() || cb.CheckoutRequestID != "ws_CO_191220191020363925" {
			t.Fatalf("unexpected result %+v", cb)
		}
		if cb.Receipt != "NLJ7RT61SV" || cb.Amount != 1000 || cb.Phone != "254708374149" {
			t.Fatalf("unexpected metadata %+v", cb)
		}
		if len(cb.Raw) == 0 {
			t.Fatalf("raw body not carried")
		}
	})

	t.Run("cancelled envelope", func(t *testing.T) {
		raw := `{"Body":{"stkCallback":{"MerchantRequestID":"m","CheckoutRequestID":"ws_CO_2","ResultCode":1032,"ResultDesc":"Request cancelled by user"}}}`
		env, err := ParseCallback([]byte(raw))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		cb := env.ToCallbackResult(nil)
		if cb.Succeeded() || cb.ResultCode != 1032 || cb.Receipt != "" {
			t.Fatalf("unexpected result %+v", cb)
		}
	})

	t.Run("quoted result code", func(t *testing.T) {
		raw := `{"Body":{"stkCallback":{"CheckoutRequestID":"ws_CO_3","ResultCode":"0"}}}`
		env, err := ParseCallback([]byte(raw))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if cb := env.ToCallbackResult(nil); !cb.Succeeded() {
			t.Fatalf("expected success, got %+v", cb)
		}
	})

	t.Run("missing result code is unreadable, not a rejection", func(t *testing.T) {
		for _, raw := range []string{
			`{"Body":{"stkCallback":{"CheckoutRequestID":"ws_CO_4"}}}`,
			`{"Body":{"stkCallback":{"CheckoutRequestID":"ws_CO_4","ResultCode":"n/a"}}}`,
		} {
			env, err := ParseCallback([]byte(raw))
			if err != nil {
				t.Fatalf("parse %s: %v", raw, err)
			}
			cb := env.ToCallbackResult(nil)
			if !cb.CodeUnreadable || cb.Succeeded() {
				t.Fatalf("expected unreadable code for %s, got %+v", raw, cb)
			}
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := ParseCallback([]byte(`{"Body":`)); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestCallbackWithoutResultCodeKeepsIntentPending(t *testing.T) {
	ctx := context.Background()
	intents := memory.NewIntentStore()
	now := time.Now().UTC()
	_, err := intents.Create(ctx, entities.PaymentIntent{
		ID:         "int-1",
		Purpose:    entities.PurposeContribution,
		SubjectRef: "pod-g",
		UserID:     "user-1",
		Currency:   "KES",
		Status:     entities.IntentStatusCreated,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = intents.Bind(ctx, "int-1", entities.IntentBinding{
		Amount:            1000,
		Phone:             "254712345678",
		MerchantRequestID: "mr-1",
		CheckoutRequestID: "ws_CO_1",
		At:                now,
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	raw := []byte(`{"Body":{"stkCallback":{"CheckoutRequestID":"ws_CO_1","ResultDesc":"garbled"}}}`)
	env, err := ParseCallback(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	uc := usecase.NewReconcilerUseCase(intents, nil, nil, nil, nil, zap.NewNop())
	if err := uc.HandleCallback(ctx, env.ToCallbackResult(raw)); !errors.Is(err, usecase.ErrUnreadableResult) {
		t.Fatalf("expected ErrUnreadableResult, got %v", err)
	}

	got, err := intents.GetByID(ctx, "int-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != entities.IntentStatusPending || got.ResultCode != "" {
		t.Fatalf("expected untouched pending intent, got status=%s result_code=%q", got.Status, got.ResultCode)
	}
}
