package formatting

import (
	"fmt"
	"math"
)

// FormatPrice форматирует сумму в рублях с двумя знаками
func FormatPrice(amount float64) string {
	return fmt.Sprintf("%.2f ₽", amount)
}

// FormatPriceShort форматирует сумму без копеек если они равны 0
func FormatPriceShort(amount float64) string {
	if amount == math.Trunc(amount) {
		return fmt.Sprintf("%.0f ₽", amount)
	}
	return fmt.Sprintf("%.2f ₽", amount)
}

// Payout считает долю репетитора, округлённую до копеек
func Payout(amount, percent float64) float64 {
	return math.Round(amount*percent) / 100
}
