package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mfgsuite/backend/internal/domain/shared"
)

// ValuationMethod represents the inventory costing method
type ValuationMethod string

const (
	ValuationMethodFIFO            ValuationMethod = "FIFO"
	ValuationMethodWeightedAverage ValuationMethod = "WEIGHTED_AVERAGE"
)

// String returns the string representation of the valuation method
func (m ValuationMethod) String() string {
	return string(m)
}

// IsValid returns true if the valuation method is supported
func (m ValuationMethod) IsValid() bool {
	switch m {
	case ValuationMethodFIFO, ValuationMethodWeightedAverage:
		return true
	}
	return false
}

// ValuationRow is the per-item result of an inventory valuation run
type ValuationRow struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	ItemCode        string          `json:"item_code"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	Method          ValuationMethod `json:"method"`
	Quantity        decimal.Decimal `json:"quantity"`
	Valuation       decimal.Decimal `json:"valuation"`
}

// CostLot is a FIFO cost layer built from an inbound ledger entry
type CostLot struct {
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// Valuate computes the value of currentStock from the item's ledger entries,
// which must be ordered chronologically. Both methods value the same quantity
// and differ only in the cost attributed to it.
func Valuate(method ValuationMethod, currentStock decimal.Decimal, entries []StockTransaction) (decimal.Decimal, error) {
	switch method {
	case ValuationMethodWeightedAverage:
		return WeightedAverageValuation(currentStock, entries), nil
	case ValuationMethodFIFO:
		return FIFOValuation(currentStock, entries), nil
	}
	return decimal.Zero, shared.ErrUnsupportedValuationMethod
}

// WeightedAverageValuation values currentStock at the average unit cost of
// all inbound entries: sum(quantity x unitCost) / sum(quantity) over IN.
func WeightedAverageValuation(currentStock decimal.Decimal, entries []StockTransaction) decimal.Decimal {
	totalQty := decimal.Zero
	totalValue := decimal.Zero
	for _, e := range entries {
		if e.TransactionType == TransactionTypeIn {
			totalQty = totalQty.Add(e.Quantity)
			totalValue = totalValue.Add(e.Quantity.Mul(e.UnitCost))
		}
	}
	if totalQty.IsZero() {
		return decimal.Zero
	}
	avgCost := totalValue.Div(totalQty)
	return avgCost.Mul(currentStock).Round(4)
}

// FIFOValuation replays inbound entries as cost lots in chronological order
// and consumes them oldest-first by the cumulative outbound quantity. The
// remaining lots, capped at currentStock, are valued at their own unit cost.
// Upward adjustments create lots; downward adjustments consume them.
func FIFOValuation(currentStock decimal.Decimal, entries []StockTransaction) decimal.Decimal {
	lots := make([]CostLot, 0, len(entries))
	consumed := decimal.Zero

	for _, e := range entries {
		switch {
		case e.TransactionType == TransactionTypeIn || e.IsAdjustmentUp():
			lots = append(lots, CostLot{Quantity: e.Quantity, UnitCost: e.UnitCost})
		case e.TransactionType == TransactionTypeOut || e.IsAdjustmentDown():
			consumed = consumed.Add(e.Quantity)
		}
	}

	// Consume lots oldest-first.
	idx := 0
	for idx < len(lots) && consumed.IsPositive() {
		if lots[idx].Quantity.LessThanOrEqual(consumed) {
			consumed = consumed.Sub(lots[idx].Quantity)
			idx++
			continue
		}
		lots[idx].Quantity = lots[idx].Quantity.Sub(consumed)
		consumed = decimal.Zero
	}

	// Value the unconsumed lots for the quantity equal to currentStock.
	valuation := decimal.Zero
	remaining := currentStock
	for ; idx < len(lots) && remaining.IsPositive(); idx++ {
		qty := lots[idx].Quantity
		if qty.GreaterThan(remaining) {
			qty = remaining
		}
		valuation = valuation.Add(qty.Mul(lots[idx].UnitCost))
		remaining = remaining.Sub(qty)
	}
	return valuation.Round(4)
}
