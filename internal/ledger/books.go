package ledger

import (
	"context"

	"erp/internal/core"
	"erp/internal/storage"
)

// Slot names of the two ledgers.
const (
	RevenuesKey = "revenues"
	CostsKey    = "costs"
)

type (
	Revenues = Ledger[core.RevenueEntry]
	Costs    = Ledger[core.CostEntry]
)

func OpenRevenues(ctx context.Context, store storage.Store, opts Options) *Revenues {
	return Open[core.RevenueEntry](ctx, store, RevenuesKey, opts)
}

func OpenCosts(ctx context.Context, store storage.Store, opts Options) *Costs {
	return Open[core.CostEntry](ctx, store, CostsKey, opts)
}
