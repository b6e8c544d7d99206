package database

import (
	"strings"

	"gorm.io/gorm"
)

// Alias 生成 "table.column AS alias"，alias 含点号，需要按方言引用
func Alias(db *gorm.DB, column, alias string) string {
	return column + " AS " + QuoteAlias(db, alias)
}

func QuoteAlias(db *gorm.DB, alias string) string {
	if db.Dialector.Name() == DriverMySQL {
		return "`" + strings.ReplaceAll(alias, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(alias, `"`, `""`) + `"`
}

// Select 把 列 -> 别名 的有序列表拼成 select 子句
func Select(db *gorm.DB, columns ...[2]string) string {
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		if c[1] == "" {
			parts = append(parts, c[0])
			continue
		}
		parts = append(parts, Alias(db, c[0], c[1]))
	}
	return strings.Join(parts, ", ")
}
