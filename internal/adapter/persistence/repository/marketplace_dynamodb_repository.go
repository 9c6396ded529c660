package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultProductsTableName = "products"
	defaultOrdersTableName   = "orders"

	cancellationConditionalCheckFailed = "ConditionalCheckFailed"
)

type productItem struct {
	ID        string `dynamodbav:"id"`
	SellerID  string `dynamodbav:"seller_id"`
	Name      string `dynamodbav:"name"`
	Price     int64  `dynamodbav:"price"`
	Currency  string `dynamodbav:"currency"`
	Quantity  int64  `dynamodbav:"quantity"`
	Status    string `dynamodbav:"status"`
	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

type lineItemItem struct {
	ProductID string `dynamodbav:"product_id"`
	Name      string `dynamodbav:"name"`
	UnitPrice int64  `dynamodbav:"unit_price"`
	Quantity  int64  `dynamodbav:"quantity"`
	Subtotal  int64  `dynamodbav:"subtotal"`
}

type orderItem struct {
	ID            string         `dynamodbav:"id"`
	IntentID      string         `dynamodbav:"intent_id"`
	BuyerID       string         `dynamodbav:"buyer_id"`
	Items         []lineItemItem `dynamodbav:"items"`
	Total         int64          `dynamodbav:"total"`
	Currency      string         `dynamodbav:"currency"`
	CorrelationID string         `dynamodbav:"correlation_id"`
	Status        string         `dynamodbav:"status"`
	CreatedAt     string         `dynamodbav:"created_at"`
}

// MarketplaceDynamoRepository persists products and orders in DynamoDB.
//
// Table requirements:
//   - products: PK id (string)
//   - orders: PK id (string)
type MarketplaceDynamoRepository struct {
	ddb           DynamoAPI
	productsTable string
	ordersTable   string
	logger        *zap.Logger
}

var _ interfaces.IMarketplaceRepository = (*MarketplaceDynamoRepository)(nil)

func NewMarketplaceDynamoRepository(ddb DynamoAPI, productsTable, ordersTable string, logger *zap.Logger) *MarketplaceDynamoRepository {
	if productsTable == "" {
		productsTable = defaultProductsTableName
	}
	if ordersTable == "" {
		ordersTable = defaultOrdersTableName
	}
	return &MarketplaceDynamoRepository{
		ddb:           ddb,
		productsTable: productsTable,
		ordersTable:   ordersTable,
		logger:        logger,
	}
}

func (r *MarketplaceDynamoRepository) CreateProduct(ctx context.Context, p entities.Product) (entities.Product, error) {
	av, err := attributevalue.MarshalMap(toProductItem(p))
	if err != nil {
		return entities.Product{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.productsTable),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Product{}, fmt.Errorf("put product %s: %w", p.ID, err)
	}
	return p, nil
}

func (r *MarketplaceDynamoRepository) GetProduct(ctx context.Context, id string) (entities.Product, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.productsTable),
		Key:            stringKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Product{}, err
	}
	if len(out.Item) == 0 {
		return entities.Product{}, nil
	}
	var it productItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Product{}, err
	}
	return fromProductItem(it), nil
}

// FulfillOrder decrements every line item's stock and inserts the order in one
// TransactWriteItems call. Any failed condition cancels all of it.
//
// Stock is read first so a line that empties a product writes quantity 0 and
// status sold in the same transaction, conditioned on the exact quantity read.
// Every other line requires more stock than it takes, so no product can reach
// zero while still active. A transaction cancelled only because stock moved
// since the read is retried against fresh levels.
func (r *MarketplaceDynamoRepository) FulfillOrder(ctx context.Context, order entities.Order) (entities.Order, error) {
	orderAV, err := attributevalue.MarshalMap(toOrderItem(order))
	if err != nil {
		return entities.Order{}, err
	}

	for attempt := 1; ; attempt++ {
		stock, err := r.stockLevels(ctx, order.Items)
		if err != nil {
			return entities.Order{}, err
		}
		_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems:      r.fulfillmentTx(order, orderAV, stock),
			ClientRequestToken: aws.String(fulfillmentToken(order.ID, attempt)),
		})
		if err == nil {
			return order, nil
		}
		err = r.classifyFulfillment(err, order)
		if !errors.Is(err, errStockMoved) {
			return entities.Order{}, err
		}
		if attempt == fulfillmentAttempts {
			return entities.Order{}, fmt.Errorf("fulfill order %s: %w", order.ID, err)
		}
		r.logger.Info("stock moved during fulfillment, retrying",
			zap.String("order_id", order.ID),
			zap.Int("attempt", attempt))
	}
}

const fulfillmentAttempts = 3

var errStockMoved = errors.New("product stock changed during fulfillment")

// stockLevels reads current stock for each line, failing early on products
// that cannot cover the order.
func (r *MarketplaceDynamoRepository) stockLevels(ctx context.Context, items []entities.LineItem) (map[string]int64, error) {
	stock := make(map[string]int64, len(items))
	for _, li := range items {
		p, err := r.GetProduct(ctx, li.ProductID)
		if err != nil {
			return nil, fmt.Errorf("read stock of %s: %w", li.ProductID, err)
		}
		switch {
		case p.ID == "":
			return nil, fmt.Errorf("%w: %s", interfaces.ErrProductNotFound, li.ProductID)
		case p.Status != entities.ProductStatusActive && p.Quantity > 0:
			return nil, fmt.Errorf("%w: %s", interfaces.ErrProductInactive, li.ProductID)
		case p.Status != entities.ProductStatusActive || p.Quantity < li.Quantity:
			return nil, fmt.Errorf("%w: %s", interfaces.ErrInsufficientStock, li.ProductID)
		}
		stock[li.ProductID] = p.Quantity
	}
	return stock, nil
}

func (r *MarketplaceDynamoRepository) fulfillmentTx(order entities.Order, orderAV map[string]types.AttributeValue, stock map[string]int64) []types.TransactWriteItem {
	now := formatTime(order.CreatedAt)
	tx := make([]types.TransactWriteItem, 0, len(order.Items)+1)
	for _, li := range order.Items {
		update := &types.Update{
			TableName: aws.String(r.productsTable),
			Key:       stringKey("id", li.ProductID),
			ExpressionAttributeNames: map[string]string{
				"#id":     "id",
				"#qty":    "quantity",
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":qty":    &types.AttributeValueMemberN{Value: strconv.FormatInt(li.Quantity, 10)},
				":active": &types.AttributeValueMemberS{Value: string(entities.ProductStatusActive)},
				":now":    &types.AttributeValueMemberS{Value: now},
			},
			ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
		}
		if stock[li.ProductID] == li.Quantity {
			update.UpdateExpression = aws.String("SET #qty = :zero, #status = :sold, updated_at = :now")
			update.ConditionExpression = aws.String("attribute_exists(#id) AND #status = :active AND #qty = :qty")
			update.ExpressionAttributeValues[":zero"] = &types.AttributeValueMemberN{Value: "0"}
			update.ExpressionAttributeValues[":sold"] = &types.AttributeValueMemberS{Value: string(entities.ProductStatusSold)}
		} else {
			update.UpdateExpression = aws.String("SET #qty = #qty - :qty, updated_at = :now")
			update.ConditionExpression = aws.String("attribute_exists(#id) AND #status = :active AND #qty > :qty")
		}
		tx = append(tx, types.TransactWriteItem{Update: update})
	}
	return append(tx, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(r.ordersTable),
			Item:                orderAV,
			ConditionExpression: aws.String("attribute_not_exists(#id)"),
			ExpressionAttributeNames: map[string]string{
				"#id": "id",
			},
		},
	})
}

// fulfillmentToken gives each attempt its own idempotency token: DynamoDB
// rejects a reused token carrying different conditions.
func fulfillmentToken(orderID string, attempt int) string {
	if attempt == 1 {
		return orderID
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/%d", orderID, attempt))).String()
}

func (r *MarketplaceDynamoRepository) classifyFulfillment(err error, order entities.Order) error {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return fmt.Errorf("fulfill order %s: %w", order.ID, err)
	}
	for i, reason := range tce.CancellationReasons {
		if aws.ToString(reason.Code) != cancellationConditionalCheckFailed {
			continue
		}
		if i >= len(order.Items) {
			return interfaces.ErrOrderExists
		}
		li := order.Items[i]
		if len(reason.Item) == 0 {
			return fmt.Errorf("%w: %s", interfaces.ErrProductNotFound, li.ProductID)
		}
		var it productItem
		if uerr := attributevalue.UnmarshalMap(reason.Item, &it); uerr != nil {
			return fmt.Errorf("decode cancelled product %s: %w", li.ProductID, uerr)
		}
		switch {
		case it.Status != string(entities.ProductStatusActive) && it.Quantity > 0:
			return fmt.Errorf("%w: %s", interfaces.ErrProductInactive, li.ProductID)
		case it.Status != string(entities.ProductStatusActive) || it.Quantity < li.Quantity:
			return fmt.Errorf("%w: %s", interfaces.ErrInsufficientStock, li.ProductID)
		default:
			return fmt.Errorf("%w: %s", errStockMoved, li.ProductID)
		}
	}
	return fmt.Errorf("fulfill order %s: %w", order.ID, err)
}

func (r *MarketplaceDynamoRepository) GetOrder(ctx context.Context, id string) (entities.Order, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.ordersTable),
		Key:            stringKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Order{}, err
	}
	if len(out.Item) == 0 {
		return entities.Order{}, nil
	}
	var it orderItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderItem(it), nil
}

func toProductItem(p entities.Product) productItem {
	return productItem{
		ID:        p.ID,
		SellerID:  p.SellerID,
		Name:      p.Name,
		Price:     p.Price,
		Currency:  p.Currency,
		Quantity:  p.Quantity,
		Status:    string(p.Status),
		CreatedAt: formatTime(p.CreatedAt),
		UpdatedAt: formatTime(p.UpdatedAt),
	}
}

func fromProductItem(it productItem) entities.Product {
	return entities.Product{
		ID:        it.ID,
		SellerID:  it.SellerID,
		Name:      it.Name,
		Price:     it.Price,
		Currency:  it.Currency,
		Quantity:  it.Quantity,
		Status:    entities.ProductStatus(it.Status),
		CreatedAt: parseTime(it.CreatedAt),
		UpdatedAt: parseTime(it.UpdatedAt),
	}
}

func toOrderItem(o entities.Order) orderItem {
	items := make([]lineItemItem, 0, len(o.Items))
	for _, li := range o.Items {
		items = append(items, lineItemItem(li))
	}
	return orderItem{
		ID:            o.ID,
		IntentID:      o.IntentID,
		BuyerID:       o.BuyerID,
		Items:         items,
		Total:         o.Total,
		Currency:      o.Currency,
		CorrelationID: o.CorrelationID,
		Status:        string(o.Status),
		CreatedAt:     formatTime(o.CreatedAt),
	}
}

func fromOrderItem(it orderItem) entities.Order {
	items := make([]entities.LineItem, 0, len(it.Items))
	for _, li := range it.Items {
		items = append(items, entities.LineItem(li))
	}
	return entities.Order{
		ID:            it.ID,
		IntentID:      it.IntentID,
		BuyerID:       it.BuyerID,
		Items:         items,
		Total:         it.Total,
		Currency:      it.Currency,
		CorrelationID: it.CorrelationID,
		Status:        entities.OrderStatus(it.Status),
		CreatedAt:     parseTime(it.CreatedAt),
	}
}
