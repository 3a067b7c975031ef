package app

import (
	"Skirmish/internal/rules/board"
	"Skirmish/internal/rules/domain"
	"Skirmish/internal/rules/phase"
	"Skirmish/internal/rules/stack"
)

type ActionType string

const (
	ActionPlayCard   ActionType = "playCard"
	ActionMoveUnit   ActionType = "moveUnit"
	ActionAttackUnit ActionType = "attackUnit"
	ActionEndPhase   ActionType = "endPhase"
	ActionPass       ActionType = "pass"
)

// Params 是动作参数，按动作类型取用：
//
//	playCard   CardID；召唤用 Position，职业/装备用 Unit，其余卡牌可选 Caster/Targets
//	moveUnit   Unit + Position
//	attackUnit Unit（攻击方）+ Target（目标单位）
type Params struct {
	CardID   domain.CardID
	Unit     domain.UnitID
	Target   domain.UnitID
	Position domain.Coord
	Caster   domain.UnitID
	// Targets 与卡牌效果按下标一一对应
	Targets []string
}

type Action struct {
	Type   ActionType
	Player domain.PlayerID
	Params Params
}

// Result 是一次动作提交的结果。失败时状态保持不变，Reason 是机器可读的原因码。
type Result struct {
	Success bool
	Message string
	Reason  string

	UnitID     domain.UnitID
	EntryID    string
	Attack     *board.AttackResult
	Transition *phase.Transition
	Resolution *stack.Outcome
	Events     []domain.GameEvent
}

func accepted(msg string) Result {
	return Result{Success: true, Message: msg}
}
