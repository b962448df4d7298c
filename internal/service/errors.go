package service

import "errors"

// 订单相关错误
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderFetchFailed  = errors.New("failed to fetch order")
	ErrOrderCreateFailed = errors.New("failed to create order")
	ErrOrderUpdateFailed = errors.New("failed to update order")
	ErrOrderNotActive    = errors.New("order is completed or cancelled")
	ErrInvalidOrderItem  = errors.New("invalid order item")
	ErrEmptyBasket       = errors.New("order requires at least one basket with one service")
	ErrOfferingNotFound  = errors.New("offering not found")
	ErrOfferingInactive  = errors.New("offering is not available")
	ErrStockInsufficient = errors.New("insufficient supplies for order")
)

// 流转指令相关错误
var (
	ErrProgressTargetRequired  = errors.New("exactly one of basket_number or handling is required")
	ErrProgressTargetAmbiguous = errors.New("basket_number and handling are mutually exclusive")
)

// 客户与员工相关错误
var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrStaffNotFound      = errors.New("staff not found")
	ErrStaffDisabled      = errors.New("staff account is disabled")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooWeak    = errors.New("password does not meet the policy")
)

// 服务项目与库存相关错误
var (
	ErrOfferingNameTaken    = errors.New("offering name already exists")
	ErrInventoryNotFound    = errors.New("inventory item not found")
	ErrInvalidAdjustment    = errors.New("invalid inventory adjustment")
	ErrInventoryItemInUse   = errors.New("inventory item is referenced by an offering")
	ErrCaptchaInvalid       = errors.New("captcha verification failed")
	ErrQueueUnavailable     = errors.New("queue unavailable")
	ErrEmailServiceDisabled = errors.New("email service disabled")
)

// 邮件发送相关错误
var (
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)
