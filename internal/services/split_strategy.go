package services

import "github.com/shopspring/decimal"

// InstallmentSplitStrategy decides how a semester's fee is split across its
// installments, as percentage shares summing to 100.
type InstallmentSplitStrategy interface {
	Shares(count int) []decimal.Decimal
}

// FrontLoadedSplit is the canonical policy: earlier installments carry more
// of the semester fee. Counts outside the table fall back to equal shares.
type FrontLoadedSplit struct{}

var frontLoadedTable = map[int][]int64{
	2: {60, 40},
	3: {40, 40, 20},
	4: {30, 30, 30, 10},
}

func (FrontLoadedSplit) Shares(count int) []decimal.Decimal {
	if count < 1 {
		count = 1
	}

	if pattern, ok := frontLoadedTable[count]; ok {
		shares := make([]decimal.Decimal, len(pattern))
		for i, p := range pattern {
			shares[i] = decimal.NewFromInt(p)
		}
		return shares
	}

	// Equal shares; the last one absorbs the division remainder so the
	// total stays exactly 100.
	equal := hundred.Div(decimal.NewFromInt(int64(count))).Round(4)
	shares := make([]decimal.Decimal, count)
	var used decimal.Decimal
	for i := 0; i < count-1; i++ {
		shares[i] = equal
		used = used.Add(equal)
	}
	shares[count-1] = hundred.Sub(used)
	return shares
}
