package database

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type AWSOptions struct {
	Region           string
	DynamoDBEndpoint string
}

// NewAWSConfig loads the shared AWS config for the DynamoDB and S3 clients.
//
// When a local DynamoDB endpoint is set, static credentials are used
// (AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY, default "local"): the local
// emulator does not check them but the SDK still signs requests.
func NewAWSConfig(ctx context.Context, opts AWSOptions) (aws.Config, error) {
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if opts.DynamoDBEndpoint != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			getenvDefault("AWS_ACCESS_KEY_ID", "local"),
			getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
			"",
		)))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// NewDynamoDBClient builds the client, pointing it at DynamoDBEndpoint when set.
func NewDynamoDBClient(cfg aws.Config, opts AWSOptions) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if opts.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.DynamoDBEndpoint)
		}
	})
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
