package kafka

import (
	"Atelier/internal/api/config"
	"Atelier/internal/pkg/redis"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	likesConsumer sarama.ConsumerGroup
	likesHandler  sarama.ConsumerGroupHandler
	likesTopic    string

	commentsConsumer sarama.ConsumerGroup
	commentsHandler  sarama.ConsumerGroupHandler
	commentsTopic    string
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, counter redis.Counter) (*ConsumerManager, error) {
	saramaCfg, err := newSaramaConfig(cfg.Kafka)
	if err != nil {
		return nil, err
	}

	likesConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaLikeConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	commentsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaCommentConsumer.GroupID, saramaCfg)
	if err != nil {
		_ = likesConsumer.Close()
		return nil, err
	}

	return &ConsumerManager{
		likesConsumer:    likesConsumer,
		likesHandler:     NewLikesHandler(counter),
		likesTopic:       cfg.KafkaLikeConsumer.Topic,
		commentsConsumer: commentsConsumer,
		commentsHandler:  NewCommentsHandler(counter),
		commentsTopic:    cfg.KafkaCommentConsumer.Topic,
	}, nil
}

// Start 启动所有消费者，阻塞到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go consume(ctx, "like", m.likesConsumer, m.likesTopic, m.likesHandler)
	go consume(ctx, "comment", m.commentsConsumer, m.commentsTopic, m.commentsHandler)

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.likesConsumer.Close(); err != nil {
		log.Error("Failed to close like consumer", "err", err)
	}
	if err := m.commentsConsumer.Close(); err != nil {
		log.Error("Failed to close comment consumer", "err", err)
	}
	return nil
}

func consume(ctx context.Context, name string, group sarama.ConsumerGroup, topic string, handler sarama.ConsumerGroupHandler) {
	log.Info(name+" consumer started", "topic", topic)
	for {
		if err := group.Consume(ctx, []string{topic}, handler); err != nil {
			log.Error("Error from consumer", "consumer", name, "err", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}
