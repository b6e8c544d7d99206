package kafka

import (
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/redis"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
)

// CommentsHandler 订阅 comments 的 binlog，让评论计数缓存失效
type CommentsHandler struct {
	counter redis.Counter
}

func NewCommentsHandler(counter redis.Counter) *CommentsHandler {
	return &CommentsHandler{counter: counter}
}

func (s *CommentsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("comment consumer setup")
	return nil
}

func (s *CommentsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("comment consumer cleanup")
	return nil
}

func (s *CommentsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-comment consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-comment process batch error", "err", err)
		return err
	}
	return nil
}

func (s *CommentsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "comments")
	if err != nil {
		return err
	}

	// 编辑评论不影响计数
	if canalMsg.Type == UPDATE {
		return nil
	}

	keys := counterKeys(canalMsg.Data, "entity_id", consts.EntityCommentCountKey)
	if len(keys) == 0 {
		return nil
	}
	if err = s.counter.Delete(ctx, keys...); err != nil {
		return err
	}
	log.DebugContext(ctx, "comment counter invalidated", "type", canalMsg.Type, "keys", keys)
	return nil
}

// counterKeys 从变更行中取出去重后的计数 key
func counterKeys(rows []map[string]interface{}, column, prefix string) []string {
	seen := make(map[uint64]struct{}, len(rows))
	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		id := StrToUint64(row[column])
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, prefix+strconv.FormatUint(id, 10))
	}
	return keys
}
