package checkout

import "testing"

func TestMergeLines(t *testing.T) {
	t.Run("collapses duplicate variants and sorts ascending", func(t *testing.T) {
		want, ids := MergeLines([]StockLine{
			{VariantID: 9, Qty: 2},
			{VariantID: 3, Qty: 1},
			{VariantID: 9, Qty: 1},
		})

		if len(ids) != 2 || ids[0] != 3 || ids[1] != 9 {
			t.Fatalf("lock order wrong: %v", ids)
		}
		if want[9] != 3 {
			t.Fatalf("duplicate variant not merged: want[9]=%d", want[9])
		}
		if want[3] != 1 {
			t.Fatalf("want[3]=%d", want[3])
		}
	})

	t.Run("clamps non-positive quantities to one", func(t *testing.T) {
		want, _ := MergeLines([]StockLine{{VariantID: 1, Qty: 0}})
		if want[1] != 1 {
			t.Fatalf("qty 0 not clamped: %d", want[1])
		}
	})
}

func TestOutOfStockError(t *testing.T) {
	err := &OutOfStockError{Items: []OutOfStockItem{{VariantID: 7, Requested: 2, Available: 1}}}
	if got := err.Error(); got != "out of stock: variant=7 requested=2 available=1" {
		t.Fatalf("message: %q", got)
	}
	if got := (&OutOfStockError{}).Error(); got != "out of stock" {
		t.Fatalf("empty message: %q", got)
	}
}
