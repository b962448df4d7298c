package fulfillment

import (
	"github.com/washpoint-next/internal/constants"
)

// Action 流转动作
type Action string

// 支持的流转动作
const (
	ActionStart    = Action(constants.ProgressActionStart)
	ActionComplete = Action(constants.ProgressActionComplete)
	ActionSkip     = Action(constants.ProgressActionSkip)
)

// Valid 判断动作是否合法
func (a Action) Valid() bool {
	switch a {
	case ActionStart, ActionComplete, ActionSkip:
		return true
	default:
		return false
	}
}

// Target 流转目标。收送环节与篮筐互斥，用和类型保证"二选一"在编译期成立。
type Target interface {
	isTarget()
}

// HandlingTarget 收送环节目标（pickup 或 delivery）
type HandlingTarget struct {
	Stage string
}

func (HandlingTarget) isTarget() {}

// BasketTarget 篮筐目标
type BasketTarget struct {
	BasketNumber int
}

func (BasketTarget) isTarget() {}

// Command 一次流转指令
type Command struct {
	Target  Target
	Action  Action
	ActorID uint // 操作员工ID
}
