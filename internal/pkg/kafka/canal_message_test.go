package kafka

import (
	"Atelier/internal/pkg/consts"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCounter struct {
	deleted []string
	err     error
}

func (c *recordingCounter) Get(context.Context, string) (int64, error) { return 0, nil }

func (c *recordingCounter) Set(context.Context, string, int64, time.Duration) error { return nil }

func (c *recordingCounter) IncrBy(context.Context, string, int64) error { return nil }

func (c *recordingCounter) Delete(_ context.Context, keys ...string) error {
	c.deleted = append(c.deleted, keys...)
	return c.err
}

func message(value string) *sarama.ConsumerMessage {
	return &sarama.ConsumerMessage{Topic: "canal", Value: []byte(value)}
}

func TestToCanalMessage(t *testing.T) {
	msg, err := ToCanalMessage(message(`{"table":"likes","type":"INSERT","data":[{"id":"1","entity_id":"42"}]}`), "likes")
	require.NoError(t, err)
	assert.Equal(t, INSERT, msg.Type)
	assert.Equal(t, uint64(42), StrToUint64(msg.Data[0]["entity_id"]))

	cases := map[string]string{
		"invalid json":   `{"table":`,
		"other table":    `{"table":"users","type":"INSERT","data":[{"id":"1"}]}`,
		"ddl":            `{"table":"likes","isDdl":true,"type":"ALTER"}`,
		"empty data set": `{"table":"likes","type":"DELETE","data":[]}`,
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ToCanalMessage(message(value), "likes")
			assert.True(t, errors.Is(err, ErrSkip), err)
		})
	}
}

func TestStrToUint64(t *testing.T) {
	assert.Equal(t, uint64(7), StrToUint64("7"))
	assert.Equal(t, uint64(7), StrToUint64(float64(7)))
	assert.Equal(t, uint64(0), StrToUint64("abc"))
	assert.Equal(t, uint64(0), StrToUint64(nil))
}

func TestLikesHandlerInvalidates(t *testing.T) {
	counter := &recordingCounter{}
	h := NewLikesHandler(counter)

	err := h.logic(context.Background(), message(`{"table":"likes","type":"DELETE","data":[{"entity_id":"3"},{"entity_id":"3"},{"entity_id":"5"}]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{consts.EntityLikeCountKey + "3", consts.EntityLikeCountKey + "5"}, counter.deleted)

	counter.deleted = nil
	err = h.logic(context.Background(), message(`{"table":"comment_likes","type":"INSERT","data":[{"comment_id":"9"}]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{consts.CommentLikeCountKey + "9"}, counter.deleted)

	counter.deleted = nil
	err = h.logic(context.Background(), message(`{"table":"likes","type":"UPDATE","data":[{"entity_id":"3"}]}`))
	require.NoError(t, err)
	assert.Empty(t, counter.deleted)
}

func TestCommentsHandlerInvalidates(t *testing.T) {
	counter := &recordingCounter{}
	h := NewCommentsHandler(counter)

	err := h.logic(context.Background(), message(`{"table":"comments","type":"INSERT","data":[{"id":"1","entity_id":"8"}]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{consts.EntityCommentCountKey + "8"}, counter.deleted)

	counter.deleted = nil
	err = h.logic(context.Background(), message(`{"table":"comments","type":"UPDATE","data":[{"id":"1","entity_id":"8"}]}`))
	require.NoError(t, err)
	assert.Empty(t, counter.deleted)

	counter.err = errors.New("redis down")
	err = h.logic(context.Background(), message(`{"table":"comments","type":"DELETE","data":[{"id":"1","entity_id":"8"}]}`))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrSkip))
}
