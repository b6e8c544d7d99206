package kafka

import (
	"fmt"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Canal 事件类型
const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
)

// ErrSkip 与当前消费者无关或无法解析的消息，直接提交不重试
var ErrSkip = errors.New("skip canal message")

// CanalMessage 定义了 Canal 推送到 Kafka 的 JSON 数据结构
type CanalMessage struct {
	ID       int64    `json:"id"`
	Database string   `json:"database"`
	Table    string   `json:"table"`
	PKNames  []string `json:"pkNames"`
	IsDDL    bool     `json:"isDdl"`
	Type     string   `json:"type"`
	ES       int64    `json:"es"`
	TS       int64    `json:"ts"`
	SQL      string   `json:"sql"`

	// Data 存储变更后的数据
	Data []map[string]interface{} `json:"data"`

	// Old 存储变更前的数据
	Old []map[string]interface{} `json:"old"`

	// 字段类型元数据
	SqlType   map[string]int    `json:"sqlType"`   // JDBC 类型 ID
	MysqlType map[string]string `json:"mysqlType"` // MySQL 类型描述
}

// ToCanalMessage 将kafka消息转换为canal消息结构体，表名不在 tables 中时返回 ErrSkip
func ToCanalMessage(msg *sarama.ConsumerMessage, tables ...string) (*CanalMessage, error) {
	var canalMsg CanalMessage
	if err := json.Unmarshal(msg.Value, &canalMsg); err != nil {
		return nil, errors.Wrapf(ErrSkip, "unmarshal canal message at offset %d: %v", msg.Offset, err)
	}
	if canalMsg.IsDDL {
		return nil, errors.Wrap(ErrSkip, "ddl")
	}

	matched := false
	for _, t := range tables {
		if canalMsg.Table == t {
			matched = true
			break
		}
	}
	if !matched {
		return nil, errors.Wrapf(ErrSkip, "table %s not subscribed", canalMsg.Table)
	}
	if len(canalMsg.Data) == 0 {
		return nil, errors.Wrap(ErrSkip, "data is empty")
	}
	return &canalMsg, nil
}

// StrToUint64 canal 中的数值均以字符串传输
func StrToUint64(v interface{}) uint64 {
	switch val := v.(type) {
	case string:
		n, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case float64:
		return uint64(val)
	case nil:
		return 0
	default:
		n, _ := strconv.ParseUint(fmt.Sprint(val), 10, 64)
		return n
	}
}
