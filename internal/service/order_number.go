package service

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const orderNumberAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// OrderNumberFunc генерирует номер заказа. Подменяется в тестах.
type OrderNumberFunc func(now time.Time) string

// NewOrderNumber возвращает номер вида ORD-<unix ms в base36>-<5 случайных символов>.
// Номер виден клиенту и после выдачи не меняется.
func NewOrderNumber(now time.Time) string {
	var suffix [5]byte
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[rand.IntN(len(orderNumberAlphabet))]
	}
	number := "ORD-" + strconv.FormatInt(now.UnixMilli(), 36) + "-" + string(suffix[:])
	return strings.ToUpper(number)
}
