package repository

import (
	"context"
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
	defaultReconcileJobsTableName = "reconcile_jobs"
	reconcileJobsDueIndex         = "state-next_run_at-index"
)

// Schedule timestamps are epoch milliseconds so the GSI sort key orders correctly.
type reconcileJobItem struct {
	IntentID     string `dynamodbav:"intent_id"`
	State        string `dynamodbav:"state"`
	NextRunAt    int64  `dynamodbav:"next_run_at"`
	AttemptsLeft int    `dynamodbav:"attempts_left"`
	IntervalMS   int64  `dynamodbav:"interval_ms"`
	LastResult   string `dynamodbav:"last_result,omitempty"`
	LeaseUntil   int64  `dynamodbav:"lease_until"`
	CreatedAt    string `dynamodbav:"created_at"`
	UpdatedAt    string `dynamodbav:"updated_at"`
}

// ReconcileJobDynamoRepository persists fallback-poll jobs in DynamoDB.
//
// Table requirements:
//   - PK: intent_id (string)
//   - GSI: state-next_run_at-index (PK: state, SK: next_run_at number)
type ReconcileJobDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
	now       func() time.Time
}

var _ interfaces.IReconcileJobRepository = (*ReconcileJobDynamoRepository)(nil)

func NewReconcileJobDynamoRepository(ddb DynamoAPI, tableName string) *ReconcileJobDynamoRepository {
	if tableName == "" {
		tableName = defaultReconcileJobsTableName
	}
	return &ReconcileJobDynamoRepository{ddb: ddb, tableName: tableName, now: time.Now}
}

// Schedule is a no-op when the intent already has a job.
func (r *ReconcileJobDynamoRepository) Schedule(ctx context.Context, job entities.ReconcileJob) error {
	av, err := attributevalue.MarshalMap(toReconcileJobItem(job))
	if err != nil {
		return err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(intent_id)"),
	})
	if err != nil {
		if _, ok := conditionFailed(err); ok {
			return nil
		}
		return err
	}
	return nil
}

func (r *ReconcileJobDynamoRepository) Get(ctx context.Context, intentID string) (entities.ReconcileJob, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            stringKey("intent_id", intentID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.ReconcileJob{}, err
	}
	if len(out.Item) == 0 {
		return entities.ReconcileJob{}, nil
	}
	return unmarshalReconcileJob(out.Item)
}

// ListDue pages through the due index skipping leased jobs. The filter runs
// after Limit, so paging continues until the batch is full or the index runs out.
func (r *ReconcileJobDynamoRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]entities.ReconcileJob, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(reconcileJobsDueIndex),
		KeyConditionExpression: aws.String("#state = :scheduled AND next_run_at <= :now"),
		FilterExpression:       aws.String("lease_until <= :now"),
		ExpressionAttributeNames: map[string]string{
			"#state": "state",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":scheduled": &types.AttributeValueMemberS{Value: string(entities.JobStateScheduled)},
			":now":       millisValue(now),
		},
	}
	if limit > 0 {
		in.Limit = aws.Int32(int32(limit))
	}

	jobs := make([]entities.ReconcileJob, 0)
	for {
		out, err := r.ddb.Query(ctx, in)
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			job, err := unmarshalReconcileJob(raw)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, job)
			if limit > 0 && len(jobs) == limit {
				return jobs, nil
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			return jobs, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// Claim writes a lease only when the job is scheduled, due and not leased by
// another runner. A lost claim is (zero, false, nil).
func (r *ReconcileJobDynamoRepository) Claim(ctx context.Context, intentID string, now, leaseUntil time.Time) (entities.ReconcileJob, bool, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 stringKey("intent_id", intentID),
		UpdateExpression:    aws.String("SET lease_until = :lease, updated_at = :updated"),
		ConditionExpression: aws.String("#state = :scheduled AND next_run_at <= :now AND lease_until <= :now"),
		ExpressionAttributeNames: map[string]string{
			"#state": "state",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":scheduled": &types.AttributeValueMemberS{Value: string(entities.JobStateScheduled)},
			":now":       millisValue(now),
			":lease":     millisValue(leaseUntil),
			":updated":   &types.AttributeValueMemberS{Value: formatTime(now)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if _, ok := conditionFailed(err); ok {
			return entities.ReconcileJob{}, false, nil
		}
		return entities.ReconcileJob{}, false, err
	}
	job, err := unmarshalReconcileJob(out.Attributes)
	if err != nil {
		return entities.ReconcileJob{}, false, err
	}
	return job, true, nil
}

func (r *ReconcileJobDynamoRepository) Reschedule(ctx context.Context, intentID string, nextRunAt time.Time, attemptsLeft int, lastResult string) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 stringKey("intent_id", intentID),
		UpdateExpression:    aws.String("SET next_run_at = :next, attempts_left = :left, last_result = :result, lease_until = :zero, updated_at = :updated"),
		ConditionExpression: aws.String("#state = :scheduled"),
		ExpressionAttributeNames: map[string]string{
			"#state": "state",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":scheduled": &types.AttributeValueMemberS{Value: string(entities.JobStateScheduled)},
			":next":      millisValue(nextRunAt),
			":left":      &types.AttributeValueMemberN{Value: strconv.Itoa(attemptsLeft)},
			":result":    &types.AttributeValueMemberS{Value: lastResult},
			":zero":      &types.AttributeValueMemberN{Value: "0"},
			":updated":   &types.AttributeValueMemberS{Value: formatTime(r.now())},
		},
	})
	return err
}

func (r *ReconcileJobDynamoRepository) Finish(ctx context.Context, intentID string, state entities.JobState, lastResult string) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 stringKey("intent_id", intentID),
		UpdateExpression:    aws.String("SET #state = :state, last_result = :result, lease_until = :zero, updated_at = :updated"),
		ConditionExpression: aws.String("attribute_exists(intent_id)"),
		ExpressionAttributeNames: map[string]string{
			"#state": "state",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":state":   &types.AttributeValueMemberS{Value: string(state)},
			":result":  &types.AttributeValueMemberS{Value: lastResult},
			":zero":    &types.AttributeValueMemberN{Value: "0"},
			":updated": &types.AttributeValueMemberS{Value: formatTime(r.now())},
		},
	})
	return err
}

func millisValue(t time.Time) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(t.UnixMilli(), 10)}
}

func unmarshalReconcileJob(av map[string]types.AttributeValue) (entities.ReconcileJob, error) {
	var it reconcileJobItem
	if err := attributevalue.UnmarshalMap(av, &it); err != nil {
		return entities.ReconcileJob{}, err
	}
	return fromReconcileJobItem(it), nil
}

func toReconcileJobItem(j entities.ReconcileJob) reconcileJobItem {
	it := reconcileJobItem{
		IntentID:     j.IntentID,
		State:        string(j.State),
		NextRunAt:    j.NextRunAt.UnixMilli(),
		AttemptsLeft: j.AttemptsLeft,
		IntervalMS:   j.Interval.Milliseconds(),
		LastResult:   j.LastResult,
		CreatedAt:    formatTime(j.CreatedAt),
		UpdatedAt:    formatTime(j.UpdatedAt),
	}
	if !j.LeaseUntil.IsZero() {
		it.LeaseUntil = j.LeaseUntil.UnixMilli()
	}
	return it
}

func fromReconcileJobItem(it reconcileJobItem) entities.ReconcileJob {
	j := entities.ReconcileJob{
		IntentID:     it.IntentID,
		State:        entities.JobState(it.State),
		NextRunAt:    time.UnixMilli(it.NextRunAt).UTC(),
		AttemptsLeft: it.AttemptsLeft,
		Interval:     time.Duration(it.IntervalMS) * time.Millisecond,
		LastResult:   it.LastResult,
		CreatedAt:    parseTime(it.CreatedAt),
		UpdatedAt:    parseTime(it.UpdatedAt),
	}
	if it.LeaseUntil > 0 {
		j.LeaseUntil = time.UnixMilli(it.LeaseUntil).UTC()
	}
	return j
}
