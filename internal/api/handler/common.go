package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// paramID 解析路径中的 uint64 id，0 视为非法
func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
