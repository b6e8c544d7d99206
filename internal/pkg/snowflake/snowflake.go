package snowflake

import (
	log "log/slog"

	"github.com/bwmarrin/snowflake"
)

var node *snowflake.Node

func init() {
	var err error
	node, err = snowflake.NewNode(1)
	if err != nil {
		log.Error("failed to init snowflake node", "err", err)
	}
}

// SetNode 按配置切换节点号，多实例部署时必须各不相同
func SetNode(id int64) error {
	n, err := snowflake.NewNode(id)
	if err != nil {
		return err
	}
	node = n
	return nil
}

// GenID 生成全局唯一 ID
func GenID() uint64 {
	return uint64(node.Generate().Int64())
}
