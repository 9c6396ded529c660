package messaging

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EnsureTopic creates the ledger events topic through the cluster controller.
// An existing topic is not an error.
func EnsureTopic(ctx context.Context, brokers []string, topic string, partitions int, logger *zap.Logger) error {
	if len(brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("dial kafka broker: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("get kafka controller: %w", err)
	}
	controllerConn, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("dial kafka controller: %w", err)
	}
	defer controllerConn.Close()

	if partitions < 1 {
		partitions = 1
	}
	err = controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	})
	if errors.Is(err, kafka.TopicAlreadyExists) {
		logger.Info("kafka topic already exists", zap.String("topic", topic))
		return nil
	}
	if err != nil {
		return fmt.Errorf("create kafka topic %s: %w", topic, err)
	}
	logger.Info("kafka topic ensured", zap.String("topic", topic), zap.Int("partitions", partitions))
	return nil
}
