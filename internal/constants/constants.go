package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// 支付状态常量
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// 支付方式常量
const (
	PaymentMethodCOD          = "cod"
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
)

// 下单来源平台
const (
	PlatformWeb    = "web"
	PlatformMobile = "mobile"
)

// 优惠码类型
const (
	DiscountTypeFixed   = "fixed"
	DiscountTypePercent = "percent"
)

// 用户角色
const (
	UserRoleCustomer = "customer"
	UserRoleAdmin    = "admin"
	UserRoleSupport  = "support"
)

// 用户状态
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 站内通知类型
const (
	NotificationTypeOrderCreated       = "order_created"
	NotificationTypeOrderStatusUpdated = "order_status_updated"
)

// 订单事件主题
const (
	EventOrderCreated       = "order_created"
	EventOrderStatusUpdated = "order_status_updated"
)

// 事件投递驱动
const (
	EventDriverAsynq = "asynq"
	EventDriverKafka = "kafka"
	EventDriverNoop  = "noop"
)

// 异步任务与队列
const (
	QueueDefault                = "default"
	QueueCritical               = "critical"
	TaskOrderCreated            = "order:created"
	TaskOrderStatusUpdated      = "order:status_updated"
	OTPPurposePasswordReset     = "password_reset"
	DefaultOrderNumberPrefix    = "VS"
	DefaultOrderNumberRandomLen = 6
)
