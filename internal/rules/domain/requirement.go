package domain

import "fmt"

// Requirement 是打出条件，封闭集合，由 requirement 包按类型判定。
type Requirement interface {
	Describe() string
	requirement()
}

// ControlsRoleFamily 要求场上有一个该职业系的己方单位。
type ControlsRoleFamily struct {
	Family string
}

func (r ControlsRoleFamily) Describe() string {
	return fmt.Sprintf("控制一个 %s 系单位", r.Family)
}

// ControlsUnits 要求己方场上至少 Min 个单位。
type ControlsUnits struct {
	Min int
}

func (r ControlsUnits) Describe() string {
	return fmt.Sprintf("控制至少 %d 个单位", r.Min)
}

// HasTarget 要求存在至少一个满足约束的目标。
type HasTarget struct {
	Restriction TargetRestriction
}

func (r HasTarget) Describe() string {
	return fmt.Sprintf("存在合法的 %s 目标", r.Restriction.Kind)
}

// CanPayCost 要求充能区至少 Amount 张，打出时移入弃牌区。
type CanPayCost struct {
	Amount int
}

func (r CanPayCost) Describe() string {
	return fmt.Sprintf("支付 %d 点费用", r.Amount)
}

func (ControlsRoleFamily) requirement() {}
func (ControlsUnits) requirement()      {}
func (HasTarget) requirement()          {}
func (CanPayCost) requirement()         {}

// CostOf 汇总一组条件里的费用。
func CostOf(reqs []Requirement) int {
	total := 0
	for _, r := range reqs {
		if c, ok := r.(CanPayCost); ok && c.Amount > 0 {
			total += c.Amount
		}
	}
	return total
}
