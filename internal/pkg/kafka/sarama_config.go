package kafka

import (
	"Atelier/internal/api/config"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

// newSaramaConfig canal 消费者组共用的客户端配置，offset 由 processBatch 手动提交
func newSaramaConfig(kafkaCfg config.KafkaConfig) (*sarama.Config, error) {
	c := sarama.NewConfig()
	if kafkaCfg.ClientID != "" {
		c.ClientID = kafkaCfg.ClientID
	}
	if kafkaCfg.Version != "" {
		version, err := sarama.ParseKafkaVersion(kafkaCfg.Version)
		if err != nil {
			return nil, errors.Wrap(err, "parse kafka version")
		}
		c.Version = version
	}

	if kafkaCfg.Sasl.Enable {
		c.Net.SASL.Enable = true
		c.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		c.Net.SASL.User = kafkaCfg.Sasl.Username
		c.Net.SASL.Password = kafkaCfg.Sasl.Password
	}

	consumer := kafkaCfg.Consumer
	switch consumer.InitialOffset {
	case "", "newest":
		// 计数缓存只需要失效最新变更，历史 binlog 无需回放
		c.Consumer.Offsets.Initial = sarama.OffsetNewest
	case "oldest":
		c.Consumer.Offsets.Initial = sarama.OffsetOldest
	default:
		return nil, errors.Errorf("unknown kafka initial offset %q", consumer.InitialOffset)
	}
	c.Consumer.Offsets.AutoCommit.Enable = false
	c.Consumer.Return.Errors = true

	if consumer.SessionTimeout > 0 {
		c.Consumer.Group.Session.Timeout = seconds(consumer.SessionTimeout)
	}
	if consumer.HeartbeatInterval > 0 {
		c.Consumer.Group.Heartbeat.Interval = seconds(consumer.HeartbeatInterval)
	}
	if consumer.RebalanceTimeout > 0 {
		c.Consumer.Group.Rebalance.Timeout = seconds(consumer.RebalanceTimeout)
	}
	if consumer.MaxProcessingTime > 0 {
		c.Consumer.MaxProcessingTime = seconds(consumer.MaxProcessingTime)
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate sarama config")
	}
	return c, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
