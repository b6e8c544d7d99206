package database

import (
	"context"

	"gorm.io/gorm"
)

type (
	txKey          struct{}
	afterCommitKey struct{}
)

type commitHooks struct {
	fns []func()
}

// Transaction 在 ctx 中携带事务，仓储层通过 Conn 取得同一连接；已在事务内时直接复用
func Transaction(ctx context.Context, db *gorm.DB, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	hooks := &commitHooks{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(context.WithValue(txCtx, afterCommitKey{}, hooks))
	})
	if err != nil {
		return err
	}
	for _, f := range hooks.fns {
		f()
	}
	return nil
}

// AfterCommit 在最外层事务提交后执行 fn，回滚则丢弃；不在事务内时立即执行
func AfterCommit(ctx context.Context, fn func()) {
	if hooks, ok := ctx.Value(afterCommitKey{}).(*commitHooks); ok {
		hooks.fns = append(hooks.fns, fn)
		return
	}
	fn()
}

// Conn 返回 ctx 中的事务，没有则退回 db
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// Transactor 供 service 层开启事务
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (s *gormTransactor) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return Transaction(ctx, s.db, fn)
}
