package constants

// 订单状态常量
const (
	OrderStatusPending     = "pending"
	OrderStatusForPickup   = "for_pick-up"
	OrderStatusProcessing  = "processing"
	OrderStatusForDelivery = "for_delivery"
	OrderStatusCompleted   = "completed"
	OrderStatusCancelled   = "cancelled"
)

// 收送环节类型常量
const (
	HandlingTypePickup   = "pickup"
	HandlingTypeDelivery = "delivery"
)

// 收送环节状态常量
const (
	StageStatusPending    = "pending"
	StageStatusInProgress = "in_progress"
	StageStatusCompleted  = "completed"
	StageStatusSkipped    = "skipped"
)

// 篮筐状态常量（由服务状态推导，不直接写入）
const (
	BasketStatusPending    = "pending"
	BasketStatusProcessing = "processing"
	BasketStatusCompleted  = "completed"
)

// 洗护服务状态常量
const (
	ServiceStatusPending    = "pending"
	ServiceStatusInProgress = "in_progress"
	ServiceStatusCompleted  = "completed"
	ServiceStatusSkipped    = "skipped"
)

// 洗护服务类型常量（目录顺序即工序顺序）
const (
	ServiceTypeWash = "wash"
	ServiceTypeSpin = "spin"
	ServiceTypeDry  = "dry"
	ServiceTypeIron = "iron"
	ServiceTypeFold = "fold"
)

// 流转动作常量
const (
	ProgressActionStart    = "start"
	ProgressActionComplete = "complete"
	ProgressActionSkip     = "skip"
)

// 下单渠道常量
const (
	OrderChannelCounter = "counter"
	OrderChannelPortal  = "portal"
)

// 审计动作常量
const (
	AuditOrderCancelled    = "order_cancelled"
	AuditHandlingStarted   = "handling_started"
	AuditHandlingCompleted = "handling_completed"
	AuditHandlingSkipped   = "handling_skipped"
	AuditServiceStarted    = "service_started"
	AuditServiceCompleted  = "service_completed"
	AuditServiceSkipped    = "service_skipped"
)

// 审计跳过原因常量
const (
	AuditReasonNoAddress = "no_address"
)

// 员工角色常量
const (
	StaffRoleManager   = "manager"
	StaffRoleAttendant = "attendant"
)

// 库存流水类型常量
const (
	InventoryMovementConsume = "consume"
	InventoryMovementRestore = "restore"
	InventoryMovementAdjust  = "adjust"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskOrderStatusNotify = "order:status_notify"
	TaskOrderReceipt      = "order:receipt"
)
