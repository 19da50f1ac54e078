package services

import "github.com/shopspring/decimal"

// GST is charged at a fixed rate on every payable base.
var (
	gstRate = decimal.NewFromFloat(0.18)
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// extractBase recovers the pre-GST base from a GST-inclusive total.
func extractBase(total decimal.Decimal) decimal.Decimal {
	return total.Div(one.Add(gstRate))
}

// roundMoney keeps the 2-decimal precision used for all intermediate
// components.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// roundRupee rounds half-up to the nearest whole currency unit. Applied only
// to final payable amounts.
func roundRupee(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// clampZero floors a value at zero.
func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func toFloat(d decimal.Decimal) float64 {
	return roundMoney(d).InexactFloat64()
}

func percentOf(base decimal.Decimal, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}

func minDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
