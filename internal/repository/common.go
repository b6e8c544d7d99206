package repository

import (
	"Atelier/internal/pkg/aggregate"

	"gorm.io/gorm"
)

// qualify 把过滤列加上表名前缀（comments.user_id），避免连表时列名歧义
func qualify(table string, cols map[string]any) (map[string]any, error) {
	if len(cols) == 0 {
		return cols, nil
	}
	return aggregate.Flatten(map[string]any{table: cols})
}

func whereColumns(db *gorm.DB, table string, cols map[string]any) (*gorm.DB, error) {
	qualified, err := qualify(table, cols)
	if err != nil {
		return nil, err
	}
	if len(qualified) == 0 {
		return db, nil
	}
	return db.Where(qualified), nil
}
