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
	"go.uber.org/zap"
)

func testOrder() entities.Order {
	return entities.Order{
		ID:       "ord-1",
		IntentID: "int-1",
		BuyerID:  "buyer-1",
		Items: []entities.LineItem{
			{ProductID: "p-1", Name: "Kiondo", UnitPrice: 500, Quantity: 2, Subtotal: 1000},
			{ProductID: "p-2", Name: "Kikoi", UnitPrice: 300, Quantity: 1, Subtotal: 300},
		},
		Total:     1300,
		Currency:  "KES",
		Status:    entities.OrderStatusPaid,
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func productAV(t *testing.T, id string, quantity int64, status entities.ProductStatus) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(toProductItem(entities.Product{ID: id, Price: 500, Currency: "KES", Quantity: quantity, Status: status}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return av
}

// expectStock answers the consistent stock reads in line-item order.
func expectStock(t *testing.T, ddb *mock_repository.MockDynamoAPI, items ...map[string]types.AttributeValue) {
	t.Helper()
	for _, item := range items {
		ddb.EXPECT().GetItem(gomock.Any(), gomock.Any()).Return(&dynamodb.GetItemOutput{Item: item}, nil)
	}
}

func TestMarketplaceDynamoRepository_FulfillOrder(t *testing.T) {
	t.Run("sell out flips status inside the transaction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ddb := mock_repository.NewMockDynamoAPI(ctrl)
		repo := NewMarketplaceDynamoRepository(ddb, "products", "orders", zap.NewNop())

		expectStock(t, ddb,
			productAV(t, "p-1", 2, entities.ProductStatusActive),
			productAV(t, "p-2", 5, entities.ProductStatusActive))
		ddb.EXPECT().TransactWriteItems(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
				if len(in.TransactItems) != 3 {
					t.Fatalf("expected 2 stock updates and 1 order put, got %d", len(in.TransactItems))
				}
				if in.TransactItems[0].Update == nil || in.TransactItems[1].Update == nil || in.TransactItems[2].Put == nil {
					t.Fatal("unexpected transaction layout")
				}
				soldOut := in.TransactItems[0].Update
				if !strings.Contains(aws.ToString(soldOut.UpdateExpression), "#status = :sold") ||
					!strings.Contains(aws.ToString(soldOut.ConditionExpression), "#qty = :qty") {
					t.Fatalf("p-1 must sell out atomically, got %q if %q",
						aws.ToString(soldOut.UpdateExpression), aws.ToString(soldOut.ConditionExpression))
				}
				partial := in.TransactItems[1].Update
				if strings.Contains(aws.ToString(partial.UpdateExpression), ":sold") ||
					!strings.Contains(aws.ToString(partial.ConditionExpression), "#qty > :qty") {
					t.Fatalf("p-2 must keep stock, got %q if %q",
						aws.ToString(partial.UpdateExpression), aws.ToString(partial.ConditionExpression))
				}
				if aws.ToString(in.TransactItems[2].Put.ConditionExpression) != "attribute_not_exists(#id)" {
					t.Fatal("order put must be insert-only")
				}
				if aws.ToString(in.ClientRequestToken) != "ord-1" {
					t.Fatalf("unexpected request token %q", aws.ToString(in.ClientRequestToken))
				}
				return &dynamodb.TransactWriteItemsOutput{}, nil
			})

		got, err := repo.FulfillOrder(context.Background(), testOrder())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != "ord-1" || got.Total != 1300 {
			t.Fatalf("unexpected order %+v", got)
		}
	})

	t.Run("stock moved between read and write is retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ddb := mock_repository.NewMockDynamoAPI(ctrl)
		repo := NewMarketplaceDynamoRepository(ddb, "products", "orders", zap.NewNop())

		var tokens []string
		gomock.InOrder(
			ddb.EXPECT().GetItem(gomock.Any(), gomock.Any()).Return(&dynamodb.GetItemOutput{Item: productAV(t, "p-1", 4, entities.ProductStatusActive)}, nil),
			ddb.EXPECT().GetItem(gomock.Any(), gomock.Any()).Return(&dynamodb.GetItemOutput{Item: productAV(t, "p-2", 3, entities.ProductStatusActive)}, nil),
			// another buyer took two of p-2, leaving exactly this order's unit
			ddb.EXPECT().TransactWriteItems(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
					tokens = append(tokens, aws.ToString(in.ClientRequestToken))
					return nil, &types.TransactionCanceledException{
						CancellationReasons: []types.CancellationReason{
							{Code: aws.String("None")},
							{Code: aws.String("ConditionalCheckFailed"), Item: productAV(t, "p-2", 1, entities.ProductStatusActive)},
							{Code: aws.String("None")},
						},
					}
				}),
			ddb.EXPECT().GetItem(gomock.Any(), gomock.Any()).Return(&dynamodb.GetItemOutput{Item: productAV(t, "p-1", 4, entities.ProductStatusActive)}, nil),
			ddb.EXPECT().GetItem(gomock.Any(), gomock.Any()).Return(&dynamodb.GetItemOutput{Item: productAV(t, "p-2", 1, entities.ProductStatusActive)}, nil),
			ddb.EXPECT().TransactWriteItems(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
					tokens = append(tokens, aws.ToString(in.ClientRequestToken))
					if !strings.Contains(aws.ToString(in.TransactItems[1].Update.UpdateExpression), "#status = :sold") {
						t.Fatalf("p-2 must now sell out, got %q", aws.ToString(in.TransactItems[1].Update.UpdateExpression))
					}
					return &dynamodb.TransactWriteItemsOutput{}, nil
				}),
		)

		if _, err := repo.FulfillOrder(context.Background(), testOrder()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tokens) != 2 || tokens[0] == tokens[1] {
			t.Fatalf("each attempt needs its own token, got %v", tokens)
		}
	})

	t.Run("insufficient stock cancels everything", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ddb := mock_repository.NewMockDynamoAPI(ctrl)
		repo := NewMarketplaceDynamoRepository(ddb, "products", "orders", zap.NewNop())

		expectStock(t, ddb,
			productAV(t, "p-1", 2, entities.ProductStatusActive),
			productAV(t, "p-2", 1, entities.ProductStatusActive))
		ddb.EXPECT().TransactWriteItems(gomock.Any(), gomock.Any()).Return(nil, &types.TransactionCanceledException{
			CancellationReasons: []types.CancellationReason{
				{Code: aws.String("None")},
				{Code: aws.String("ConditionalCheckFailed"), Item: productAV(t, "p-2", 0, entities.ProductStatusSold)},
				{Code: aws.String("None")},
			},
		})

		_, err := repo.FulfillOrder(context.Background(), testOrder())
		if !errors.Is(err, interfaces.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
	})

	t.Run("stock read short-circuits before writing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ddb := mock_repository.NewMockDynamoAPI(ctrl)
		repo := NewMarketplaceDynamoRepository(ddb, "products", "orders", zap.NewNop())

		expectStock(t, ddb, productAV(t, "p-1", 1, entities.ProductStatusActive))

		_, err := repo.FulfillOrder(context.Background(), testOrder())
		if !errors.Is(err, interfaces.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
	})

	t.Run("order already exists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ddb := mock_repository.NewMockDynamoAPI(ctrl)
		repo := NewMarketplaceDynamoRepository(ddb, "products", "orders", zap.NewNop())

		expectStock(t, ddb,
			productAV(t, "p-1", 2, entities.ProductStatusActive),
			productAV(t, "p-2", 5, entities.ProductStatusActive))
		ddb.EXPECT().TransactWriteItems(gomock.Any(), gomock.Any()).Return(nil, &types.TransactionCanceledException{
			CancellationReasons: []types.CancellationReason{
				{Code: aws.String("None")},
				{Code: aws.String("None")},
				{Code: aws.String("ConditionalCheckFailed")},
			},
		})

		_, err := repo.FulfillOrder(context.Background(), testOrder())
		if !errors.Is(err, interfaces.ErrOrderExists) {
			t.Fatalf("expected ErrOrderExists, got %v", err)
		}
	})
}

func TestMarketplaceDynamoRepository_GetProduct(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ddb := mock_repository.NewMockDynamoAPI(ctrl)
	repo := NewMarketplaceDynamoRepository(ddb, "", "", zap.NewNop())

	ddb.EXPECT().GetItem(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			if aws.ToString(in.TableName) != defaultProductsTableName {
				t.Fatalf("expected default table, got %q", aws.ToString(in.TableName))
			}
			return &dynamodb.GetItemOutput{}, nil
		})

	got, err := repo.GetProduct(context.Background(), "p-1")
	if err != nil || got.ID != "" {
		t.Fatalf("expected zero product, got %+v err=%v", got, err)
	}
}
