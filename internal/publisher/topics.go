package publisher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/transfraud/internal/config"
)

// TopicConfigs returns the topics the service publishes to
func TopicConfigs(cfg config.KafkaConfig) []kafka.TopicConfig {
	var topics []kafka.TopicConfig
	for _, name := range []string{cfg.TransactionsTopic, cfg.FraudAlertsTopic} {
		if name == "" {
			continue
		}
		topics = append(topics, kafka.TopicConfig{
			Topic:             name,
			NumPartitions:     cfg.Partitions,
			ReplicationFactor: cfg.Replicas,
		})
	}
	return topics
}

// ProvisionTopics creates the configured topics through the cluster
// controller. Topics that already exist are left untouched.
func ProvisionTopics(ctx context.Context, cfg config.KafkaConfig, log *logrus.Logger) error {
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers[0])
	if err != nil {
		return fmt.Errorf("failed to dial kafka broker: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("failed to find kafka controller: %w", err)
	}

	controllerConn, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("failed to dial kafka controller: %w", err)
	}
	defer controllerConn.Close()

	topics := TopicConfigs(cfg)
	if err := controllerConn.CreateTopics(topics...); err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("failed to create topics: %w", err)
	}

	for _, t := range topics {
		log.Infof("Topic ready: %s (%d partitions, %d replicas)", t.Topic, t.NumPartitions, t.ReplicationFactor)
	}
	return nil
}
