package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultIntentsTableName     = "payment_intents"
	intentsCheckoutRequestIndex = "checkout_request_id-index"
)

type intentItem struct {
	ID                 string `dynamodbav:"id"`
	Purpose            string `dynamodbav:"purpose"`
	SubjectRef         string `dynamodbav:"subject_ref,omitempty"`
	Snapshot           string `dynamodbav:"snapshot,omitempty"`
	UserID             string `dynamodbav:"user_id"`
	Amount             *int64 `dynamodbav:"amount,omitempty"`
	Currency           string `dynamodbav:"currency"`
	Route              string `dynamodbav:"route"`
	Phone              string `dynamodbav:"phone,omitempty"`
	Status             string `dynamodbav:"status"`
	MerchantRequestID  string `dynamodbav:"merchant_request_id,omitempty"`
	CheckoutRequestID  string `dynamodbav:"checkout_request_id,omitempty"`
	Receipt            string `dynamodbav:"receipt,omitempty"`
	ResultCode         string `dynamodbav:"result_code,omitempty"`
	ResultDesc         string `dynamodbav:"result_desc,omitempty"`
	ConfirmationMethod string `dynamodbav:"confirmation_method,omitempty"`
	Applied            bool   `dynamodbav:"applied"`
	AppliedAt          string `dynamodbav:"applied_at,omitempty"`
	CallbackAt         string `dynamodbav:"callback_at,omitempty"`
	InitiatingUntil    int64  `dynamodbav:"initiating_until,omitempty"`
	CreatedAt          string `dynamodbav:"created_at"`
	UpdatedAt          string `dynamodbav:"updated_at"`
	ExpiresAt          int64  `dynamodbav:"expires_at,omitempty"`
}

// IntentDynamoRepository persists PaymentIntent entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: checkout_request_id-index (PK: checkout_request_id)
//   - TTL: expires_at
type IntentDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IIntentRepository = (*IntentDynamoRepository)(nil)

func NewIntentDynamoRepository(ddb DynamoAPI, tableName string) *IntentDynamoRepository {
	if tableName == "" {
		tableName = defaultIntentsTableName
	}
	return &IntentDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *IntentDynamoRepository) Create(ctx context.Context, intent entities.PaymentIntent) (entities.PaymentIntent, error) {
	av, err := attributevalue.MarshalMap(toIntentItem(intent))
	if err != nil {
		return entities.PaymentIntent{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.PaymentIntent{}, fmt.Errorf("put intent %s: %w", intent.ID, err)
	}
	return intent, nil
}

func (r *IntentDynamoRepository) GetByID(ctx context.Context, id string) (entities.PaymentIntent, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            stringKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.PaymentIntent{}, err
	}
	if len(out.Item) == 0 {
		return entities.PaymentIntent{}, nil
	}
	return unmarshalIntent(out.Item)
}

// GetByCheckoutRequestID resolves the gateway correlation id through the GSI,
// then re-reads the base item so the caller sees the latest state.
func (r *IntentDynamoRepository) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (entities.PaymentIntent, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(intentsCheckoutRequestIndex),
		KeyConditionExpression: aws.String("checkout_request_id = :cid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": &types.AttributeValueMemberS{Value: checkoutRequestID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return entities.PaymentIntent{}, err
	}
	if len(out.Items) == 0 {
		return entities.PaymentIntent{}, nil
	}

	var ref struct {
		ID string `dynamodbav:"id"`
	}
	if err := attributevalue.UnmarshalMap(out.Items[0], &ref); err != nil {
		return entities.PaymentIntent{}, err
	}
	return r.GetByID(ctx, ref.ID)
}

// ClaimInitiation sets the initiation lease (epoch millis) on a created,
// unexpired intent whose previous lease, if any, has lapsed.
func (r *IntentDynamoRepository) ClaimInitiation(ctx context.Context, id string, until, now time.Time) (entities.PaymentIntent, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              stringKey("id", id),
		UpdateExpression: aws.String("SET initiating_until = :until, updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(#id) AND #status = :created " +
			"AND (attribute_not_exists(expires_at) OR expires_at > :epoch) " +
			"AND (attribute_not_exists(initiating_until) OR initiating_until <= :nowms)"),
		ExpressionAttributeNames: map[string]string{
			"#id":     "id",
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":created": &types.AttributeValueMemberS{Value: string(entities.IntentStatusCreated)},
			":until":   &types.AttributeValueMemberN{Value: strconv.FormatInt(until.UnixMilli(), 10)},
			":nowms":   &types.AttributeValueMemberN{Value: strconv.FormatInt(now.UnixMilli(), 10)},
			":epoch":   &types.AttributeValueMemberN{Value: strconv.FormatInt(epochSeconds(now), 10)},
			":now":     &types.AttributeValueMemberS{Value: formatTime(now)},
		},
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		old, ok := conditionFailed(err)
		if !ok {
			return entities.PaymentIntent{}, err
		}
		if len(old) == 0 {
			return entities.PaymentIntent{}, interfaces.ErrIntentNotFound
		}
		current, uerr := unmarshalIntent(old)
		if uerr != nil {
			return entities.PaymentIntent{}, uerr
		}
		switch {
		case current.Status != entities.IntentStatusCreated:
			return current, interfaces.ErrInvalidTransition
		case current.Expired(now):
			return current, interfaces.ErrIntentExpired
		default:
			return current, interfaces.ErrInitiationInProgress
		}
	}
	return unmarshalIntent(out.Attributes)
}

func (r *IntentDynamoRepository) ReleaseInitiation(ctx context.Context, id string, until time.Time) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 stringKey("id", id),
		UpdateExpression:    aws.String("REMOVE initiating_until"),
		ConditionExpression: aws.String("#status = :created AND initiating_until = :until"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":created": &types.AttributeValueMemberS{Value: string(entities.IntentStatusCreated)},
			":until":   &types.AttributeValueMemberN{Value: strconv.FormatInt(until.UnixMilli(), 10)},
		},
	})
	if _, ok := conditionFailed(err); ok {
		return nil
	}
	return err
}

func (r *IntentDynamoRepository) Bind(ctx context.Context, id string, b entities.IntentBinding) (entities.PaymentIntent, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key:       stringKey("id", id),
		UpdateExpression: aws.String("SET #status = :pending, amount = :amount, phone = :phone, " +
			"merchant_request_id = :mrid, checkout_request_id = :cid, updated_at = :now REMOVE initiating_until"),
		ConditionExpression: aws.String("attribute_exists(#id) AND #status = :created " +
			"AND (attribute_not_exists(amount) OR amount = :amount) " +
			"AND (attribute_not_exists(expires_at) OR expires_at > :epoch)"),
		ExpressionAttributeNames: map[string]string{
			"#id":     "id",
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: string(entities.IntentStatusPending)},
			":created": &types.AttributeValueMemberS{Value: string(entities.IntentStatusCreated)},
			":amount":  &types.AttributeValueMemberN{Value: strconv.FormatInt(b.Amount, 10)},
			":phone":   &types.AttributeValueMemberS{Value: b.Phone},
			":mrid":    &types.AttributeValueMemberS{Value: b.MerchantRequestID},
			":cid":     &types.AttributeValueMemberS{Value: b.CheckoutRequestID},
			":now":     &types.AttributeValueMemberS{Value: formatTime(b.At)},
			":epoch":   &types.AttributeValueMemberN{Value: strconv.FormatInt(epochSeconds(b.At), 10)},
		},
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		old, ok := conditionFailed(err)
		if !ok {
			return entities.PaymentIntent{}, err
		}
		if len(old) == 0 {
			return entities.PaymentIntent{}, interfaces.ErrIntentNotFound
		}
		current, uerr := unmarshalIntent(old)
		if uerr != nil {
			return entities.PaymentIntent{}, uerr
		}
		switch {
		case current.Amount != nil && *current.Amount != b.Amount:
			return current, interfaces.ErrAmountAlreadyBound
		case current.Status == entities.IntentStatusCreated && current.Expired(b.At):
			return current, interfaces.ErrIntentExpired
		default:
			return current, interfaces.ErrInvalidTransition
		}
	}
	return unmarshalIntent(out.Attributes)
}

// TryApply is the apply-once guard: a single conditional update that only one
// caller can win. Losers get the stored intent back with Won=false.
func (r *IntentDynamoRepository) TryApply(ctx context.Context, id string, a entities.ApplyAttempt) (entities.ApplyResult, error) {
	update := "SET applied = :true, #status = :completed, confirmation_method = :method, applied_at = :at, updated_at = :at"
	values := map[string]types.AttributeValue{
		":true":      &types.AttributeValueMemberBOOL{Value: true},
		":false":     &types.AttributeValueMemberBOOL{Value: false},
		":completed": &types.AttributeValueMemberS{Value: string(entities.IntentStatusCompleted)},
		":pending":   &types.AttributeValueMemberS{Value: string(entities.IntentStatusPending)},
		":method":    &types.AttributeValueMemberS{Value: string(a.Method)},
		":at":        &types.AttributeValueMemberS{Value: formatTime(a.At)},
	}
	if a.Receipt != "" {
		update += ", receipt = :receipt"
		values[":receipt"] = &types.AttributeValueMemberS{Value: a.Receipt}
	}
	if a.Method == entities.ConfirmationCallback {
		update += ", callback_at = :at"
	}
	if a.ResultCode != "" {
		update += ", result_code = :rc"
		values[":rc"] = &types.AttributeValueMemberS{Value: a.ResultCode}
	}
	if a.ResultDesc != "" {
		update += ", result_desc = :rd"
		values[":rd"] = &types.AttributeValueMemberS{Value: a.ResultDesc}
	}
	// completed intents are kept for good
	update += " REMOVE expires_at"

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 stringKey("id", id),
		UpdateExpression:    aws.String(update),
		ConditionExpression: aws.String("applied = :false AND #status = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues:           values,
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		old, ok := conditionFailed(err)
		if !ok {
			return entities.ApplyResult{}, err
		}
		if len(old) == 0 {
			return entities.ApplyResult{}, interfaces.ErrIntentNotFound
		}
		current, uerr := unmarshalIntent(old)
		if uerr != nil {
			return entities.ApplyResult{}, uerr
		}
		return entities.ApplyResult{Intent: current, Won: false}, nil
	}

	applied, err := unmarshalIntent(out.Attributes)
	if err != nil {
		return entities.ApplyResult{}, err
	}
	return entities.ApplyResult{Intent: applied, Won: true}, nil
}

// EnrichReceipt stores the webhook's receipt on an intent another path
// already applied. The first receipt recorded is kept.
func (r *IntentDynamoRepository) EnrichReceipt(ctx context.Context, id string, a entities.ApplyAttempt) (entities.PaymentIntent, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 stringKey("id", id),
		UpdateExpression:    aws.String("SET receipt = :receipt, callback_at = :at, result_code = :rc, result_desc = :rd, updated_at = :at"),
		ConditionExpression: aws.String("applied = :true AND attribute_not_exists(receipt)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":true":    &types.AttributeValueMemberBOOL{Value: true},
			":receipt": &types.AttributeValueMemberS{Value: a.Receipt},
			":at":      &types.AttributeValueMemberS{Value: formatTime(a.At)},
			":rc":      &types.AttributeValueMemberS{Value: a.ResultCode},
			":rd":      &types.AttributeValueMemberS{Value: a.ResultDesc},
		},
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		old, ok := conditionFailed(err)
		if !ok {
			return entities.PaymentIntent{}, err
		}
		if len(old) == 0 {
			return entities.PaymentIntent{}, interfaces.ErrIntentNotFound
		}
		current, uerr := unmarshalIntent(old)
		if uerr != nil {
			return entities.PaymentIntent{}, uerr
		}
		if current.Applied {
			return current, nil
		}
		return current, interfaces.ErrInvalidTransition
	}
	return unmarshalIntent(out.Attributes)
}

func (r *IntentDynamoRepository) MarkFailed(ctx context.Context, id string, resultCode, resultDesc string) (entities.PaymentIntent, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 stringKey("id", id),
		UpdateExpression:    aws.String("SET #status = :failed, result_code = :rc, result_desc = :rd, updated_at = :now"),
		ConditionExpression: aws.String("#status = :pending AND applied = :false"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":failed":  &types.AttributeValueMemberS{Value: string(entities.IntentStatusFailed)},
			":pending": &types.AttributeValueMemberS{Value: string(entities.IntentStatusPending)},
			":false":   &types.AttributeValueMemberBOOL{Value: false},
			":rc":      &types.AttributeValueMemberS{Value: resultCode},
			":rd":      &types.AttributeValueMemberS{Value: resultDesc},
			":now":     &types.AttributeValueMemberS{Value: formatTime(time.Now())},
		},
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		old, ok := conditionFailed(err)
		if !ok {
			return entities.PaymentIntent{}, err
		}
		if len(old) == 0 {
			return entities.PaymentIntent{}, interfaces.ErrIntentNotFound
		}
		current, uerr := unmarshalIntent(old)
		if uerr != nil {
			return entities.PaymentIntent{}, uerr
		}
		return current, interfaces.ErrInvalidTransition
	}
	return unmarshalIntent(out.Attributes)
}

func unmarshalIntent(av map[string]types.AttributeValue) (entities.PaymentIntent, error) {
	var it intentItem
	if err := attributevalue.UnmarshalMap(av, &it); err != nil {
		return entities.PaymentIntent{}, err
	}
	return fromIntentItem(it)
}

func toIntentItem(i entities.PaymentIntent) intentItem {
	return intentItem{
		ID:                 i.ID,
		Purpose:            string(i.Purpose),
		SubjectRef:         i.SubjectRef,
		Snapshot:           string(i.Snapshot),
		UserID:             i.UserID,
		Amount:             i.Amount,
		Currency:           i.Currency,
		Route:              i.Route,
		Phone:              i.Phone,
		Status:             string(i.Status),
		MerchantRequestID:  i.MerchantRequestID,
		CheckoutRequestID:  i.CheckoutRequestID,
		Receipt:            i.Receipt,
		ResultCode:         i.ResultCode,
		ResultDesc:         i.ResultDesc,
		ConfirmationMethod: string(i.ConfirmationMethod),
		Applied:            i.Applied,
		AppliedAt:          formatTimePtr(i.AppliedAt),
		CallbackAt:         formatTimePtr(i.CallbackAt),
		InitiatingUntil:    epochMillisPtr(i.InitiatingUntil),
		CreatedAt:          formatTime(i.CreatedAt),
		UpdatedAt:          formatTime(i.UpdatedAt),
		ExpiresAt:          epochSeconds(i.ExpiresAt),
	}
}

func fromIntentItem(it intentItem) (entities.PaymentIntent, error) {
	purpose, err := entities.ParsePurpose(it.Purpose)
	if err != nil {
		return entities.PaymentIntent{}, fmt.Errorf("intent %s: %w", it.ID, err)
	}
	status, err := entities.ParseIntentStatus(it.Status)
	if err != nil {
		return entities.PaymentIntent{}, fmt.Errorf("intent %s: %w", it.ID, err)
	}
	method, err := entities.ParseConfirmationMethod(it.ConfirmationMethod)
	if err != nil {
		return entities.PaymentIntent{}, fmt.Errorf("intent %s: %w", it.ID, err)
	}

	out := entities.PaymentIntent{
		ID:                 it.ID,
		Purpose:            purpose,
		SubjectRef:         it.SubjectRef,
		UserID:             it.UserID,
		Amount:             it.Amount,
		Currency:           it.Currency,
		Route:              it.Route,
		Phone:              it.Phone,
		Status:             status,
		MerchantRequestID:  it.MerchantRequestID,
		CheckoutRequestID:  it.CheckoutRequestID,
		Receipt:            it.Receipt,
		ResultCode:         it.ResultCode,
		ResultDesc:         it.ResultDesc,
		ConfirmationMethod: method,
		Applied:            it.Applied,
		AppliedAt:          parseTimePtr(it.AppliedAt),
		CallbackAt:         parseTimePtr(it.CallbackAt),
		InitiatingUntil:    fromEpochMillisPtr(it.InitiatingUntil),
		CreatedAt:          parseTime(it.CreatedAt),
		UpdatedAt:          parseTime(it.UpdatedAt),
		ExpiresAt:          fromEpochSeconds(it.ExpiresAt),
	}
	if it.Snapshot != "" {
		out.Snapshot = []byte(it.Snapshot)
	}
	return out, nil
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
