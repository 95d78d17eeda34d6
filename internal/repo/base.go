package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base provides the shared connection plumbing domain repositories embed.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the shared connection bound to the supplied context.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Conn returns tx when a transaction is in flight, the shared handle otherwise.
func (b Base) Conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return b.db
}
