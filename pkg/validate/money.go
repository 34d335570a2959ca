package validate

import (
	"github.com/shopspring/decimal"
)

// IsMoney проверяет, что сумма положительна и имеет не больше двух знаков
// после запятой.
func IsMoney(v decimal.Decimal) bool {
	return v.IsPositive() && v.Exponent() >= -2
}
