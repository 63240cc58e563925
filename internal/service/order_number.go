package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/vestra-shop/internal/constants"
)

// generateOrderNumber 前缀 + yyyyMMddHHmmss + 随机数字
func generateOrderNumber(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = constants.DefaultOrderNumberPrefix
	}
	return prefix + now.Format("20060102150405") + randNumeric(constants.DefaultOrderNumberRandomLen)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}

// isOrderNumberConflict 判断是否为订单号唯一索引冲突（sqlite/postgres）
func isOrderNumberConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "order_number") {
		return false
	}
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
