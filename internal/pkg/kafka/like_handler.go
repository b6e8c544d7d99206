package kafka

import (
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/redis"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// LikesHandler 订阅 likes 与 comment_likes 的 binlog，让点赞计数缓存失效
type LikesHandler struct {
	counter redis.Counter
}

func NewLikesHandler(counter redis.Counter) *LikesHandler {
	return &LikesHandler{counter: counter}
}

func (s *LikesHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("like consumer setup")
	return nil
}

func (s *LikesHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("like consumer cleanup")
	return nil
}

func (s *LikesHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-like consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-like process batch error", "err", err)
		return err
	}
	return nil
}

func (s *LikesHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "likes", "comment_likes")
	if err != nil {
		return err
	}

	// 点赞只有物理增删
	if canalMsg.Type != INSERT && canalMsg.Type != DELETE {
		return nil
	}

	var keys []string
	switch canalMsg.Table {
	case "likes":
		keys = counterKeys(canalMsg.Data, "entity_id", consts.EntityLikeCountKey)
	case "comment_likes":
		keys = counterKeys(canalMsg.Data, "comment_id", consts.CommentLikeCountKey)
	}
	if len(keys) == 0 {
		return nil
	}

	if err = s.counter.Delete(ctx, keys...); err != nil {
		return err
	}
	log.DebugContext(ctx, "like counter invalidated", "table", canalMsg.Table, "type", canalMsg.Type, "keys", keys)
	return nil
}
