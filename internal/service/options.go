package service

import (
	"strings"

	"github.com/vestra-shop/internal/config"
	"github.com/vestra-shop/internal/constants"
)

// OrderOptions 下单与状态流转行为开关
type OrderOptions struct {
	DiscountCodesEnabled    bool
	SettleOnDelivery        bool
	SettleOnDeliveryMethods []string
	NumberPrefix            string
	NumberRetry             int
}

// DefaultOrderOptions 默认行为
func DefaultOrderOptions() OrderOptions {
	return OrderOptions{
		DiscountCodesEnabled:    true,
		SettleOnDelivery:        true,
		SettleOnDeliveryMethods: []string{constants.PaymentMethodCOD},
		NumberPrefix:            constants.DefaultOrderNumberPrefix,
		NumberRetry:             3,
	}
}

// OrderOptionsFromConfig 从配置构建下单选项
func OrderOptionsFromConfig(cfg config.OrderConfig) OrderOptions {
	opts := OrderOptions{
		DiscountCodesEnabled:    cfg.DiscountCodesEnabled,
		SettleOnDelivery:        cfg.SettleOnDelivery,
		SettleOnDeliveryMethods: cfg.SettleOnDeliveryMethods,
		NumberPrefix:            strings.TrimSpace(cfg.NumberPrefix),
		NumberRetry:             cfg.NumberRetry,
	}
	if opts.NumberPrefix == "" {
		opts.NumberPrefix = constants.DefaultOrderNumberPrefix
	}
	if opts.NumberRetry <= 0 {
		opts.NumberRetry = 1
	}
	return opts
}

func (o OrderOptions) settlesOnDelivery(paymentMethod string) bool {
	if !o.SettleOnDelivery {
		return false
	}
	for _, method := range o.SettleOnDeliveryMethods {
		if strings.EqualFold(strings.TrimSpace(method), paymentMethod) {
			return true
		}
	}
	return false
}
