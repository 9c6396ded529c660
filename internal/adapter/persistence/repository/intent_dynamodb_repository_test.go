package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	mock_repository "mobilepay_ledger/internal/adapter/persistence/repository/mocks"
	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/mock/gomock"
)

func pendingIntent(t *testing.T) map[string]types.AttributeValue {
	t.Helper()
	amount := int64(1000)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	av, err := attributevalue.MarshalMap(toIntentItem(entities.PaymentIntent{
		ID:                "int-1",
		Purpose:           entities.PurposeContribution,
		SubjectRef:        "pod-1",
		UserID:            "user-1",
		Amount:            &amount,
		Currency:          "KES",
		Route:             "174379",
		Status:            entities.IntentStatusPending,
		CheckoutRequestID: "ws_CO_1",
		CreatedAt:         now,
		UpdatedAt:         now,
		ExpiresAt:         now.Add(30 * time.Minute),
	}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return av
}

func appliedIntent(t *testing.T, method entities.ConfirmationMethod, receipt string) map[string]types.AttributeValue {
	t.Helper()
	av := pendingIntent(t)
	av["status"] = &types.AttributeValueMemberS{Value: string(entities.IntentStatusCompleted)}
	av["applied"] = &types.AttributeValueMemberBOOL{Value: true}
	av["confirmation_method"] = &types.AttributeValueMemberS{Value: string(method)}
	if receipt != "" {
		av["receipt"] = &types.AttributeValueMemberS{Value: receipt}
	}
	delete(av, "expires_at")
	return av
}

func TestIntentDynamoRepository_GetByID(t *testing.T) {
	t.Run("not found returns zero value", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ddb := mock_repository.NewMockDynamoAPI(ctrl)
		repo := NewIntentDynamoRepository(ddb, "intents")

		ddb.EXPECT().GetItem(gomock.Any(), gomock.Any()).Return(&dynamodb.GetItemOutput{}, nil)

		got, err := repo.GetByID(context.Background(), "missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != "" {
			t.Fatalf("expected zero intent, got %+v", got)
		}
	})

	t.Run("decodes stored item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ddb := mock_repository.NewMockDynamoAPI(ctrl)
		repo := NewIntentDynamoRepository(ddb, "intents")

		ddb.EXPECT().GetItem(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
				if aws.ToString(in.TableName) != "intents" || !aws.ToBool(in.ConsistentRead) {
					t.Fatalf("unexpected input %+v", in)
				}
				return &dynamodb.GetItemOutput{Item: pendingIntent(t)}, nil
			})

		got, err := repo.GetByID(context.Background(), "int-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.IntentStatusPending || got.AmountValue() != 1000 || got.ExpiresAt.IsZero() {
			t.Fatalf("unexpected intent %+v", got)
		}
	})
}

func TestIntentDynamoRepository_GetByCheckoutRequestID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ddb := mock_repository.NewMockDynamoAPI(ctrl)
	repo := NewIntentDynamoRepository(ddb, "intents")

	gomock.InOrder(
		ddb.EXPECT().Query(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
				if aws.ToString(in.IndexName) != intentsCheckoutRequestIndex {
					t.Fatalf("expected GSI lookup, got %q", aws.ToString(in.IndexName))
				}
				return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{stringKey("id", "int-1")}}, nil
			}),
		ddb.EXPECT().GetItem(gomock.Any(), gomock.Any()).Return(&dynamodb.GetItemOutput{Item: pendingIntent(t)}, nil),
	)

	got, err := repo.GetByCheckoutRequestID(context.Background(), "ws_CO_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "int-1" {
		t.Fatalf("unexpected intent %+v", got)
	}
}

func TestIntentDynamoRepository_TryApply(t *testing.T) {
	attempt := entities.ApplyAttempt{
		Receipt:    "RCP123",
		Method:     entities.ConfirmationCallback,
		ResultCode: "0",
		ResultDesc: "ok",
		At:         time.Date(2026, 3, 1, 10, 1, 0, 0, time.UTC),
	}

	t.Run("winner gets the applied intent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ddb := mock_repository.NewMockDynamoAPI(ctrl)
		repo := NewIntentDynamoRepository(ddb, "intents")

		ddb.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
				if got := aws.ToString(in.ConditionExpression); got != "applied = :false AND #status = :pending" {
					t.Fatalf("unexpected condition %q", got)
				}
				expr := aws.ToString(in.UpdateExpression)
				for _, want := range []string{"applied = :true", "receipt = :receipt", "callback_at = :at", "REMOVE expires_at"} {
					if !strings.Contains(expr, want) {
						t.Fatalf("update expression %q missing %q", expr, want)
					}
				}
				if in.ReturnValuesOnConditionCheckFailure != types.ReturnValuesOnConditionCheckFailureAllOld {
					t.Fatalf("expected ALL_OLD on condition failure")
				}
				return &dynamodb.UpdateItemOutput{Attributes: appliedIntent(t, entities.ConfirmationCallback, "RCP123")}, nil
			})

		res, err := repo.TryApply(context.Background(), "int-1", attempt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Won || !res.Intent.Applied || res.Intent.Receipt != "RCP123" {
			t.Fatalf("unexpected result %+v", res)
		}
	})

	t.Run("loser observes already applied", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ddb := mock_repository.NewMockDynamoAPI(ctrl)
		repo := NewIntentDynamoRepository(ddb, "intents")

		ddb.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).Return(nil, &types.ConditionalCheckFailedException{
			Message: aws.String("The conditional request failed"),
			Item:    appliedIntent(t, entities.ConfirmationFallback, ""),
		})

		res, err := repo.TryApply(context.Background(), "int-1", attempt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Won {
			t.Fatal("expected lost race")
		}
		if res.Intent.ConfirmationMethod != entities.ConfirmationFallback {
			t.Fatalf("expected stored method, got %q", res.Intent.ConfirmationMethod)
		}
	})

	t.Run("missing intent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ddb := mock_repository.NewMockDynamoAPI(ctrl)
		repo := NewIntentDynamoRepository(ddb, "intents")

		ddb.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).Return(nil, &types.ConditionalCheckFailedException{})

		_, err := repo.TryApply(context.Background(), "int-1", attempt)
		if !errors.Is(err, interfaces.ErrIntentNotFound) {
			t.Fatalf("expected ErrIntentNotFound, got %v", err)
		}
	})

	t.Run("store error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ddb := mock_repository.NewMockDynamoAPI(ctrl)
		repo := NewIntentDynamoRepository(ddb, "intents")

		ddb.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).Return(nil, errors.New("throughput exceeded"))

		if _, err := repo.TryApply(context.Background(), "int-1", attempt); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestIntentDynamoRepository_Bind(t *testing.T) {
	binding := entities.IntentBinding{
		Amount:            500,
		Phone:             "254712345678",
		MerchantRequestID: "mr-1",
		CheckoutRequestID: "ws_CO_1",
		At:                time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	t.Run("different amount already bound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ddb := mock_repository.NewMockDynamoAPI(ctrl)
		repo := NewIntentDynamoRepository(ddb, "intents")

		old := pendingIntent(t)
		old["status"] = &types.AttributeValueMemberS{Value: string(entities.IntentStatusCreated)}
		ddb.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).Return(nil, &types.ConditionalCheckFailedException{Item: old})

		_, err := repo.Bind(context.Background(), "int-1", binding)
		if !errors.Is(err, interfaces.ErrAmountAlreadyBound) {
			t.Fatalf("expected ErrAmountAlreadyBound, got %v", err)
		}
	})

	t.Run("not in created", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ddb := mock_repository.NewMockDynamoAPI(ctrl)
		repo := NewIntentDynamoRepository(ddb, "intents")

		old := pendingIntent(t)
		old["amount"] = &types.AttributeValueMemberN{Value: "500"}
		ddb.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).Return(nil, &types.ConditionalCheckFailedException{Item: old})

		_, err := repo.Bind(context.Background(), "int-1", binding)
		if !errors.Is(err, interfaces.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("binds created intent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ddb := mock_repository.NewMockDynamoAPI(ctrl)
		repo := NewIntentDynamoRepository(ddb, "intents")

		ddb.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
				cond := aws.ToString(in.ConditionExpression)
				if !strings.Contains(cond, "#status = :created") || !strings.Contains(cond, "attribute_not_exists(amount) OR amount = :amount") {
					t.Fatalf("unexpected condition %q", cond)
				}
				return &dynamodb.UpdateItemOutput{Attributes: pendingIntent(t)}, nil
			})

		got, err := repo.Bind(context.Background(), "int-1", binding)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.IntentStatusPending {
			t.Fatalf("expected pending, got %s", got.Status)
		}
	})
}

func TestIntentDynamoRepository_MarkFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ddb := mock_repository.NewMockDynamoAPI(ctrl)
	repo := NewIntentDynamoRepository(ddb, "intents")

	ddb.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).Return(nil, &types.ConditionalCheckFailedException{
		Item: appliedIntent(t, entities.ConfirmationCallback, "RCP1"),
	})

	got, err := repo.MarkFailed(context.Background(), "int-1", "1032", "cancelled")
	if !errors.Is(err, interfaces.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if got.Status != entities.IntentStatusCompleted {
		t.Fatalf("expected completed intent to stay completed, got %s", got.Status)
	}
}

func TestIntentDynamoRepository_EnrichReceipt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ddb := mock_repository.NewMockDynamoAPI(ctrl)
	repo := NewIntentDynamoRepository(ddb, "intents")

	ddb.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).Return(nil, &types.ConditionalCheckFailedException{
		Item: appliedIntent(t, entities.ConfirmationCallback, "RCP1"),
	})

	got, err := repo.EnrichReceipt(context.Background(), "int-1", entities.ApplyAttempt{Receipt: "RCP2", Method: entities.ConfirmationCallback})
	if err != nil {
		t.Fatalf("duplicate receipt should be a no-op, got %v", err)
	}
	if got.Receipt != "RCP1" {
		t.Fatalf("expected first receipt kept, got %q", got.Receipt)
	}
}

func TestIntentDynamoRepository_ClaimInitiation(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 5, 0, time.UTC)
	until := now.Add(time.Minute)

	createdIntent := func(t *testing.T) map[string]types.AttributeValue {
		av := pendingIntent(t)
		av["status"] = &types.AttributeValueMemberS{Value: string(entities.IntentStatusCreated)}
		delete(av, "amount")
		delete(av, "checkout_request_id")
		return av
	}

	t.Run("conditional lease write", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ddb := mock_repository.NewMockDynamoAPI(ctrl)
		repo := NewIntentDynamoRepository(ddb, "intents")

		ddb.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
				cond := aws.ToString(in.ConditionExpression)
				if !strings.Contains(cond, "#status = :created") || !strings.Contains(cond, "initiating_until <= :nowms") {
					t.Fatalf("unexpected condition %q", cond)
				}
				v, ok := in.ExpressionAttributeValues[":until"].(*types.AttributeValueMemberN)
				if !ok || v.Value != "1772359265000" {
					t.Fatalf("unexpected lease value %+v", in.ExpressionAttributeValues[":until"])
				}
				item := createdIntent(t)
				item["initiating_until"] = v
				return &dynamodb.UpdateItemOutput{Attributes: item}, nil
			})

		got, err := repo.ClaimInitiation(context.Background(), "int-1", until, now)
		if err != nil {
			t.Fatalf("claim: %v", err)
		}
		if got.InitiatingUntil == nil || !got.InitiatingUntil.Equal(until) {
			t.Fatalf("lease not decoded: %+v", got.InitiatingUntil)
		}
	})

	t.Run("held lease", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ddb := mock_repository.NewMockDynamoAPI(ctrl)
		repo := NewIntentDynamoRepository(ddb, "intents")

		held := createdIntent(t)
		held["initiating_until"] = &types.AttributeValueMemberN{Value: "1772359265000"}
		ddb.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).Return(nil, &types.ConditionalCheckFailedException{Item: held})

		if _, err := repo.ClaimInitiation(context.Background(), "int-1", until, now); !errors.Is(err, interfaces.ErrInitiationInProgress) {
			t.Fatalf("expected ErrInitiationInProgress, got %v", err)
		}
	})

	t.Run("already bound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ddb := mock_repository.NewMockDynamoAPI(ctrl)
		repo := NewIntentDynamoRepository(ddb, "intents")

		ddb.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).Return(nil, &types.ConditionalCheckFailedException{Item: pendingIntent(t)})

		if _, err := repo.ClaimInitiation(context.Background(), "int-1", until, now); !errors.Is(err, interfaces.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestIntentDynamoRepository_ReleaseInitiation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ddb := mock_repository.NewMockDynamoAPI(ctrl)
	repo := NewIntentDynamoRepository(ddb, "intents")
	until := time.Date(2026, 3, 1, 10, 1, 5, 0, time.UTC)

	gomock.InOrder(
		ddb.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
				if aws.ToString(in.UpdateExpression) != "REMOVE initiating_until" || !strings.Contains(aws.ToString(in.ConditionExpression), "initiating_until = :until") {
					t.Fatalf("unexpected release %+v", in)
				}
				return &dynamodb.UpdateItemOutput{}, nil
			}),
		ddb.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).Return(nil, &types.ConditionalCheckFailedException{}),
	)

	if err := repo.ReleaseInitiation(context.Background(), "int-1", until); err != nil {
		t.Fatalf("release: %v", err)
	}
	// a lease that changed hands is left alone
	if err := repo.ReleaseInitiation(context.Background(), "int-1", until); err != nil {
		t.Fatalf("stale release: %v", err)
	}
}
