package fulfillment

import "errors"

// 指令格式错误：未发生任何变更
var (
	ErrMissingActor    = errors.New("fulfillment: actor is required")
	ErrAmbiguousTarget = errors.New("fulfillment: exactly one of basket or handling target is required")
	ErrInvalidAction   = errors.New("fulfillment: action must be start, complete or skip")
)

// 工序顺序/前置条件错误：未发生任何变更
var (
	ErrDeliveryRequiresAddress    = errors.New("fulfillment: delivery cannot start without an address")
	ErrPickupAfterServicesStarted = errors.New("fulfillment: pickup cannot start after basket services have started")
	ErrBasketsIncomplete          = errors.New("fulfillment: delivery cannot start before all basket services are done")
	ErrPickupNotDone              = errors.New("fulfillment: basket services require pickup to be completed or skipped")
)

// 状态不匹配错误：未发生任何变更
var (
	ErrBasketNotFound      = errors.New("fulfillment: basket not found in order")
	ErrUnknownServiceType  = errors.New("fulfillment: unknown service type")
	ErrNoPendingServices   = errors.New("fulfillment: basket has no pending service to act on")
	ErrNoInProgressService = errors.New("fulfillment: basket has no in-progress service to complete")
)
