package repository

import (
	"context"
	"fmt"
	"strconv"

	"mobilepay_ledger/internal/domain/entities"
	"mobilepay_ledger/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultPodsTableName = "savings_pods"

type podMemberItem struct {
	UserID           string `dynamodbav:"user_id"`
	Status           string `dynamodbav:"status"`
	TotalContributed int64  `dynamodbav:"total_contributed"`
	TotalWithdrawn   int64  `dynamodbav:"total_withdrawn"`
	Available        int64  `dynamodbav:"available"`
	JoinedAt         string `dynamodbav:"joined_at"`
}

type contributionItem struct {
	ID            string `dynamodbav:"id"`
	IntentID      string `dynamodbav:"intent_id"`
	UserID        string `dynamodbav:"user_id"`
	Amount        int64  `dynamodbav:"amount"`
	Method        string `dynamodbav:"method"`
	CorrelationID string `dynamodbav:"correlation_id"`
	Status        string `dynamodbav:"status"`
	CreatedAt     string `dynamodbav:"created_at"`
}

type withdrawalItem struct {
	ID        string `dynamodbav:"id"`
	UserID    string `dynamodbav:"user_id"`
	Amount    int64  `dynamodbav:"amount"`
	Status    string `dynamodbav:"status"`
	CreatedAt string `dynamodbav:"created_at"`
}

type podItem struct {
	ID                string                   `dynamodbav:"id"`
	Name              string                   `dynamodbav:"name"`
	Status            string                   `dynamodbav:"status"`
	Currency          string                   `dynamodbav:"currency"`
	CurrentBalance    int64                    `dynamodbav:"current_balance"`
	TotalContributed  int64                    `dynamodbav:"total_contributed"`
	ContributionCount int64                    `dynamodbav:"contribution_count"`
	Members           map[string]podMemberItem `dynamodbav:"members"`
	Contributions     []contributionItem       `dynamodbav:"contributions"`
	Withdrawals       []withdrawalItem         `dynamodbav:"withdrawals"`
	CreatedAt         string                   `dynamodbav:"created_at"`
	UpdatedAt         string                   `dynamodbav:"updated_at"`
}

// PodDynamoRepository persists SavingsPod aggregates in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Contribution and withdrawal each run as one conditional UpdateItem on the
// pod item, so concurrent writers on the same pod never lose an increment.
type PodDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IPodRepository = (*PodDynamoRepository)(nil)

func NewPodDynamoRepository(ddb DynamoAPI, tableName string) *PodDynamoRepository {
	if tableName == "" {
		tableName = defaultPodsTableName
	}
	return &PodDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *PodDynamoRepository) Create(ctx context.Context, pod entities.SavingsPod) (entities.SavingsPod, error) {
	av, err := attributevalue.MarshalMap(toPodItem(pod))
	if err != nil {
		return entities.SavingsPod{}, err
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
		return entities.SavingsPod{}, fmt.Errorf("put pod %s: %w", pod.ID, err)
	}
	return pod, nil
}

func (r *PodDynamoRepository) GetByID(ctx context.Context, id string) (entities.SavingsPod, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            stringKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.SavingsPod{}, err
	}
	if len(out.Item) == 0 {
		return entities.SavingsPod{}, nil
	}
	return unmarshalPod(out.Item)
}

func (r *PodDynamoRepository) ApplyContribution(ctx context.Context, podID string, c entities.Contribution) (entities.SavingsPod, error) {
	entry, err := attributevalue.Marshal([]contributionItem{toContributionItem(c)})
	if err != nil {
		return entities.SavingsPod{}, err
	}
	amount := &types.AttributeValueMemberN{Value: strconv.FormatInt(c.Amount, 10)}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key:       stringKey("id", podID),
		UpdateExpression: aws.String("SET current_balance = current_balance + :amt, " +
			"total_contributed = total_contributed + :amt, " +
			"contribution_count = contribution_count + :one, " +
			"#members.#uid.total_contributed = #members.#uid.total_contributed + :amt, " +
			"#members.#uid.available = #members.#uid.available + :amt, " +
			"contributions = list_append(if_not_exists(contributions, :empty), :entry), " +
			"updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(#id) AND #status = :active AND #members.#uid.#status = :active"),
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#status":  "status",
			"#members": "members",
			"#uid":     c.UserID,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":amt":    amount,
			":one":    &types.AttributeValueMemberN{Value: "1"},
			":entry":  entry,
			":empty":  &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":active": &types.AttributeValueMemberS{Value: string(entities.PodStatusActive)},
			":now":    &types.AttributeValueMemberS{Value: formatTime(c.CreatedAt)},
		},
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		old, ok := conditionFailed(err)
		if !ok {
			return entities.SavingsPod{}, err
		}
		return entities.SavingsPod{}, classifyPodRejection(old, c.UserID, c.Amount, false)
	}
	return unmarshalPod(out.Attributes)
}

// ApplyWithdrawal debits the member and the pod in one conditional write. Both
// balance checks live in the condition, so a rejected withdrawal changes nothing.
func (r *PodDynamoRepository) ApplyWithdrawal(ctx context.Context, podID string, w entities.Withdrawal) (entities.SavingsPod, error) {
	entry, err := attributevalue.Marshal([]withdrawalItem{toWithdrawalItem(w)})
	if err != nil {
		return entities.SavingsPod{}, err
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key:       stringKey("id", podID),
		UpdateExpression: aws.String("SET current_balance = current_balance - :amt, " +
			"#members.#uid.total_withdrawn = #members.#uid.total_withdrawn + :amt, " +
			"#members.#uid.available = #members.#uid.available - :amt, " +
			"withdrawals = list_append(if_not_exists(withdrawals, :empty), :entry), " +
			"updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(#id) AND #status = :active " +
			"AND #members.#uid.#status = :active " +
			"AND #members.#uid.available >= :amt AND current_balance >= :amt"),
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#status":  "status",
			"#members": "members",
			"#uid":     w.UserID,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":amt":    &types.AttributeValueMemberN{Value: strconv.FormatInt(w.Amount, 10)},
			":entry":  entry,
			":empty":  &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":active": &types.AttributeValueMemberS{Value: string(entities.PodStatusActive)},
			":now":    &types.AttributeValueMemberS{Value: formatTime(w.CreatedAt)},
		},
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		old, ok := conditionFailed(err)
		if !ok {
			return entities.SavingsPod{}, err
		}
		return entities.SavingsPod{}, classifyPodRejection(old, w.UserID, w.Amount, true)
	}
	return unmarshalPod(out.Attributes)
}

// classifyPodRejection turns the pre-write pod image into the reason the
// conditional write refused it.
func classifyPodRejection(old map[string]types.AttributeValue, userID string, amount int64, withdrawal bool) error {
	if len(old) == 0 {
		return interfaces.ErrPodNotFound
	}
	pod, err := unmarshalPod(old)
	if err != nil {
		return err
	}
	switch {
	case !pod.IsActive():
		return interfaces.ErrPodInactive
	case !pod.IsActiveMember(userID):
		return interfaces.ErrNotPodMember
	case withdrawal && pod.MemberAvailable(userID) < amount:
		return interfaces.ErrInsufficientMemberBalance
	case withdrawal && pod.CurrentBalance < amount:
		return interfaces.ErrInsufficientPodBalance
	default:
		return fmt.Errorf("pod %s changed concurrently, retry", pod.ID)
	}
}

func unmarshalPod(av map[string]types.AttributeValue) (entities.SavingsPod, error) {
	var it podItem
	if err := attributevalue.UnmarshalMap(av, &it); err != nil {
		return entities.SavingsPod{}, err
	}
	return fromPodItem(it), nil
}

func toPodItem(p entities.SavingsPod) podItem {
	it := podItem{
		ID:                p.ID,
		Name:              p.Name,
		Status:            string(p.Status),
		Currency:          p.Currency,
		CurrentBalance:    p.CurrentBalance,
		TotalContributed:  p.TotalContributed,
		ContributionCount: p.ContributionCount,
		Members:           make(map[string]podMemberItem, len(p.Members)),
		Contributions:     make([]contributionItem, 0, len(p.Contributions)),
		Withdrawals:       make([]withdrawalItem, 0, len(p.Withdrawals)),
		CreatedAt:         formatTime(p.CreatedAt),
		UpdatedAt:         formatTime(p.UpdatedAt),
	}
	for uid, m := range p.Members {
		it.Members[uid] = podMemberItem{
			UserID:           m.UserID,
			Status:           string(m.Status),
			TotalContributed: m.TotalContributed,
			TotalWithdrawn:   m.TotalWithdrawn,
			Available:        m.Available,
			JoinedAt:         formatTime(m.JoinedAt),
		}
	}
	for _, c := range p.Contributions {
		it.Contributions = append(it.Contributions, toContributionItem(c))
	}
	for _, w := range p.Withdrawals {
		it.Withdrawals = append(it.Withdrawals, toWithdrawalItem(w))
	}
	return it
}

func fromPodItem(it podItem) entities.SavingsPod {
	p := entities.SavingsPod{
		ID:                it.ID,
		Name:              it.Name,
		Status:            entities.PodStatus(it.Status),
		Currency:          it.Currency,
		CurrentBalance:    it.CurrentBalance,
		TotalContributed:  it.TotalContributed,
		ContributionCount: it.ContributionCount,
		Members:           make(map[string]entities.PodMember, len(it.Members)),
		CreatedAt:         parseTime(it.CreatedAt),
		UpdatedAt:         parseTime(it.UpdatedAt),
	}
	for uid, m := range it.Members {
		p.Members[uid] = entities.PodMember{
			UserID:           m.UserID,
			Status:           entities.MemberStatus(m.Status),
			TotalContributed: m.TotalContributed,
			TotalWithdrawn:   m.TotalWithdrawn,
			Available:        m.Available,
			JoinedAt:         parseTime(m.JoinedAt),
		}
	}
	for _, c := range it.Contributions {
		p.Contributions = append(p.Contributions, entities.Contribution{
			ID:            c.ID,
			IntentID:      c.IntentID,
			UserID:        c.UserID,
			Amount:        c.Amount,
			Method:        entities.ConfirmationMethod(c.Method),
			CorrelationID: c.CorrelationID,
			Status:        entities.ContributionStatus(c.Status),
			CreatedAt:     parseTime(c.CreatedAt),
		})
	}
	for _, w := range it.Withdrawals {
		p.Withdrawals = append(p.Withdrawals, entities.Withdrawal{
			ID:        w.ID,
			UserID:    w.UserID,
			Amount:    w.Amount,
			Status:    entities.WithdrawalStatus(w.Status),
			CreatedAt: parseTime(w.CreatedAt),
		})
	}
	return p
}

func toContributionItem(c entities.Contribution) contributionItem {
	return contributionItem{
		ID:            c.ID,
		IntentID:      c.IntentID,
		UserID:        c.UserID,
		Amount:        c.Amount,
		Method:        string(c.Method),
		CorrelationID: c.CorrelationID,
		Status:        string(c.Status),
		CreatedAt:     formatTime(c.CreatedAt),
	}
}

func toWithdrawalItem(w entities.Withdrawal) withdrawalItem {
	return withdrawalItem{
		ID:        w.ID,
		UserID:    w.UserID,
		Amount:    w.Amount,
		Status:    string(w.Status),
		CreatedAt: formatTime(w.CreatedAt),
	}
}
