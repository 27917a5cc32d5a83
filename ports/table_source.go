package ports

import (
	"context"

	"gochance/domain/weighted"
)

// TableSource loads probability tables from storage
type TableSource interface {
	// Load reads and validates the table stored at path
	Load(ctx context.Context, path string) (*weighted.Table, error)
}
