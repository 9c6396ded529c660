package app

import (
	"context"
	"fmt"
	"time"

	"mobilepay_ledger/internal/adapter/http/handlers"
	"mobilepay_ledger/internal/adapter/http/routes"
	"mobilepay_ledger/internal/adapter/persistence/memory"
	"mobilepay_ledger/internal/adapter/persistence/repository"
	"mobilepay_ledger/internal/infrastructure/archive"
	"mobilepay_ledger/internal/infrastructure/config"
	"mobilepay_ledger/internal/infrastructure/database"
	"mobilepay_ledger/internal/infrastructure/messaging"
	"mobilepay_ledger/internal/infrastructure/payments"
	"mobilepay_ledger/internal/usecase"
	"mobilepay_ledger/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

const reaperInterval = time.Minute

type closablePublisher interface {
	interfaces.ILedgerEventPublisher
	Close() error
}

// Container holds the wired service. cmd/api and cmd/ops both build one.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Intents interfaces.IIntentRepository
	Pods    interfaces.IPodRepository
	Market  interfaces.IMarketplaceRepository
	Jobs    interfaces.IReconcileJobRepository

	Checkout    *usecase.CheckoutUseCase
	Reconciler  *usecase.ReconcilerUseCase
	Withdrawals *usecase.WithdrawalUseCase
	Runner      *usecase.FallbackRunner

	publisher    closablePublisher
	memoryIntent *memory.IntentStore
}

// New builds every adapter from cfg and wires the use cases on top.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	var awsCfg *aws.Config
	loadAWS := func() (aws.Config, error) {
		if awsCfg != nil {
			return *awsCfg, nil
		}
		loaded, err := database.NewAWSConfig(ctx, c.awsOptions())
		if err != nil {
			return aws.Config{}, err
		}
		awsCfg = &loaded
		return loaded, nil
	}

	switch cfg.StorageBackend {
	case config.StorageBackendMemory:
		c.memoryIntent = memory.NewIntentStore()
		c.Intents = c.memoryIntent
		c.Pods = memory.NewPodStore()
		c.Market = memory.NewMarketplaceStore()
		c.Jobs = memory.NewReconcileJobStore()
		logger.Warn("using in-memory storage, state is lost on restart")
	default:
		loaded, err := loadAWS()
		if err != nil {
			return nil, err
		}
		ddb := database.NewDynamoDBClient(loaded, c.awsOptions())
		c.Intents = repository.NewIntentDynamoRepository(ddb, cfg.Tables.Intents)
		c.Pods = repository.NewPodDynamoRepository(ddb, cfg.Tables.Pods)
		c.Market = repository.NewMarketplaceDynamoRepository(ddb, cfg.Tables.Products, cfg.Tables.Orders, logger.With(zap.String("component", "marketplace_repository")))
		c.Jobs = repository.NewReconcileJobDynamoRepository(ddb, cfg.Tables.ReconcileJobs)
		logger.Info("dynamodb storage configured", zap.String("region", cfg.AWSRegion), zap.String("endpoint", cfg.DynamoDBEndpoint))
	}

	gateway, err := payments.NewMobileMoneyGateway(payments.GatewayConfig{
		BaseURL:        cfg.Gateway.BaseURL,
		ConsumerKey:    cfg.Gateway.ConsumerKey,
		ConsumerSecret: cfg.Gateway.ConsumerSecret,
		PassKey:        cfg.Gateway.PassKey,
		Timeout:        cfg.Gateway.Timeout,
		Mock:           cfg.Gateway.Mock,
	}, logger.With(zap.String("component", "gateway")))
	if err != nil {
		return nil, fmt.Errorf("init payment gateway: %w", err)
	}

	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		topicCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := messaging.EnsureTopic(topicCtx, brokers, cfg.KafkaLedgerEventsTopic, 3, logger); err != nil {
			logger.Warn("could not ensure kafka topic", zap.Error(err))
		}
		cancel()
		c.publisher = messaging.NewKafkaPublisher(brokers, cfg.KafkaLedgerEventsTopic, logger)
	} else {
		c.publisher = messaging.NewNoopPublisher(logger)
	}

	var callbackArchive interfaces.ICallbackArchive = archive.NoopArchive{}
	if cfg.CallbackArchiveBucket != "" {
		loaded, err := loadAWS()
		if err != nil {
			return nil, err
		}
		callbackArchive = archive.NewS3CallbackArchive(s3.NewFromConfig(loaded), cfg.CallbackArchiveBucket, logger)
	}

	applier := usecase.NewLedgerApplier(
		usecase.NewContributionApplier(c.Pods, logger),
		usecase.NewOrderFulfillmentApplier(c.Market, logger),
	)

	c.Runner = usecase.NewFallbackRunner(c.Jobs, nil, usecase.FallbackConfig{
		GraceDelay:    cfg.Fallback.GraceDelay,
		Interval:      cfg.Fallback.Interval,
		MaxAttempts:   cfg.Fallback.MaxAttempts,
		SweepInterval: cfg.Fallback.SweepInterval,
		LeaseDuration: cfg.Fallback.LeaseDuration,
		BatchSize:     cfg.Fallback.BatchSize,
	}, logger)
	c.Reconciler = usecase.NewReconcilerUseCase(c.Intents, gateway, applier, c.publisher, callbackArchive, logger)
	c.Runner.SetPoller(c.Reconciler)

	c.Checkout = usecase.NewCheckoutUseCase(c.Intents, c.Pods, c.Market, gateway, c.Runner, usecase.CheckoutConfig{
		Route:           cfg.Gateway.ShortCode,
		CallbackURL:     cfg.Gateway.CallbackURL,
		CheckoutBaseURL: cfg.CheckoutBaseURL,
		Currency:        cfg.Currency,
		IntentTTL:       cfg.IntentTTL,
		InitiationLease: cfg.InitiationLease,
	}, logger)
	c.Withdrawals = usecase.NewWithdrawalUseCase(c.Pods, c.publisher, logger)

	if cfg.SeedFile != "" {
		if err := c.Seed(ctx, cfg.SeedFile); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) awsOptions() database.AWSOptions {
	return database.AWSOptions{Region: c.Config.AWSRegion, DynamoDBEndpoint: c.Config.DynamoDBEndpoint}
}

func (c *Container) Handlers() routes.Handlers {
	return routes.Handlers{
		Checkout:   handlers.NewCheckoutHandler(c.Checkout, c.Reconciler, c.Logger),
		Callback:   handlers.NewCallbackHandler(c.Reconciler, c.Logger),
		Withdrawal: handlers.NewWithdrawalHandler(c.Withdrawals, c.Logger),
	}
}

// StartBackground runs the fallback runner and, for memory storage, the
// expiry reaper that DynamoDB TTL provides otherwise.
func (c *Container) StartBackground(ctx context.Context) {
	c.Runner.Start(ctx)
	if c.memoryIntent != nil {
		c.memoryIntent.StartReaper(ctx, reaperInterval, c.Logger.With(zap.String("component", "intent_reaper")))
	}
}

func (c *Container) Close() error {
	c.Runner.Stop()
	if err := c.publisher.Close(); err != nil {
		return fmt.Errorf("close publisher: %w", err)
	}
	return nil
}
