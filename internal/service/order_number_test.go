package service_test

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/linemk/maizy-store/internal/service"
)

func TestNewOrderNumber_Format(t *testing.T) {
	now := time.UnixMilli(1735689600000)

	number := service.NewOrderNumber(now)
	assert.Regexp(t, `^ORD-[0-9A-Z]+-[0-9A-Z]{5}$`, number)

	parts := strings.Split(number, "-")
	if assert.Len(t, parts, 3) {
		ms, err := strconv.ParseInt(strings.ToLower(parts[1]), 36, 64)
		assert.NoError(t, err)
		assert.Equal(t, now.UnixMilli(), ms)
	}
}

func TestNewOrderNumber_Uppercase(t *testing.T) {
	for i := 0; i < 50; i++ {
		number := service.NewOrderNumber(time.Now())
		assert.Equal(t, strings.ToUpper(number), number)
	}
}
