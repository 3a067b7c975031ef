package domain

import "fmt"

// Controller 是相对打出者而言的控制方。
type Controller string

const (
	ControllerAny      Controller = ""
	ControllerSelf     Controller = "self"
	ControllerOpponent Controller = "opponent"
)

func ParseController(s string) (Controller, error) {
	switch c := Controller(s); c {
	case ControllerAny, ControllerSelf, ControllerOpponent:
		return c, nil
	}
	if s == "any" {
		return ControllerAny, nil
	}
	return "", fmt.Errorf("unknown controller %q", s)
}

// Matches 判断 owner 是否符合相对 actor 的控制方要求。
func (c Controller) Matches(actor, owner PlayerID) bool {
	switch c {
	case ControllerSelf:
		return actor == owner
	case ControllerOpponent:
		return actor != owner
	}
	return true
}

type TargetKind string

const (
	TargetUnit TargetKind = "unit"
	TargetCard TargetKind = "card"
)

// TargetRestriction 约束一个效果能指向的对象。零值字段表示不限制。
type TargetRestriction struct {
	Kind       TargetKind
	Controller Controller
	// Zone 只对卡牌目标生效
	Zone       Zone
	RoleFamily string
	MinLevel   int
	// Range 是离施放单位的曼哈顿距离上限，0 不限
	Range int
}
