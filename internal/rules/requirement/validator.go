// Package requirement 判定打出条件并解析合法目标集合。
package requirement

import (
	"fmt"

	"Skirmish/internal/rules/domain"
	"Skirmish/internal/rules/store"
)

type Validator struct {
	store   *store.Store
	catalog domain.Catalog
}

func NewValidator(st *store.Store, catalog domain.Catalog) *Validator {
	return &Validator{store: st, catalog: catalog}
}

// Check 按顺序检查条件，遇到第一个不满足的立即返回，错误里带该条件的描述。
func (v *Validator) Check(p domain.PlayerID, reqs []domain.Requirement, caster domain.UnitID) error {
	for i, req := range reqs {
		ok, err := v.satisfied(p, req, caster)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		reason := domain.ReasonRequirementUnmet
		if _, isCost := req.(domain.CanPayCost); isCost {
			reason = domain.ReasonCostUnpayable
		}
		return domain.Illegal(reason).
			WithMsg(req.Describe()).
			WithData("requirement", req.Describe()).
			WithData("index", i)
	}
	return nil
}

func (v *Validator) satisfied(p domain.PlayerID, req domain.Requirement, caster domain.UnitID) (bool, error) {
	switch r := req.(type) {
	case domain.ControlsRoleFamily:
		for _, u := range v.store.Units() {
			if u.Owner == p && v.roleFamily(u) == r.Family {
				return true, nil
			}
		}
		return false, nil
	case domain.ControlsUnits:
		return len(v.store.UnitIDsOf(p)) >= r.Min, nil
	case domain.HasTarget:
		return len(v.Targets(p, []domain.TargetRestriction{r.Restriction}, caster)) > 0, nil
	case domain.CanPayCost:
		z, ok := v.store.Zone(p)
		if !ok {
			return false, domain.Missing(domain.ReasonPlayerNotFound, "player", p)
		}
		return len(z.Recharge) >= r.Amount, nil
	}
	return false, fmt.Errorf("unsupported requirement %T", req)
}

// PayCost 从充能区开头取 amount 张移入弃牌区，调用前必须已经通过 Check。
func (v *Validator) PayCost(p domain.PlayerID, amount int) ([]domain.CardID, error) {
	if amount <= 0 {
		return nil, nil
	}
	z, ok := v.store.Zone(p)
	if !ok {
		return nil, domain.Missing(domain.ReasonPlayerNotFound, "player", p)
	}
	if len(z.Recharge) < amount {
		return nil, domain.Illegal(domain.ReasonCostUnpayable).WithData("amount", amount)
	}
	paid := append([]domain.CardID(nil), z.Recharge[:amount]...)
	err := v.store.PatchZone(p, func(z *domain.PlayerZone) {
		for _, id := range paid {
			z.Move(id, domain.ZoneRecharge, domain.ZoneDiscard)
		}
	})
	return paid, err
}

func (v *Validator) roleFamily(u domain.FieldedUnit) string {
	if u.RoleCard == "" {
		return ""
	}
	c, ok := v.catalog.Card(u.RoleCard)
	if !ok || c.Role == nil {
		return ""
	}
	return c.Role.Family
}

// ValidateRoleChange 判断职业卡能否装到单位上：
// 声明了 Parent 的进阶职业要求单位当前职业正是 Parent；
// 未声明 Parent 的高阶职业要求同系且恰好高一阶。
func (v *Validator) ValidateRoleChange(u domain.FieldedUnit, role *domain.RoleCard) error {
	if role == nil {
		return domain.Illegal(domain.ReasonCardNotPlayable)
	}
	if role.Parent != "" {
		if u.RoleCard != role.Parent {
			return domain.Illegal(domain.ReasonRoleMismatch).WithData("parent", role.Parent).WithData("current", u.RoleCard)
		}
		return nil
	}
	if role.Tier <= 1 {
		return nil
	}
	cur, ok := v.catalog.Card(u.RoleCard)
	if !ok || cur.Role == nil || cur.Role.Family != role.Family || cur.Role.Tier+1 != role.Tier {
		return domain.Illegal(domain.ReasonRoleMismatch).WithData("family", role.Family).WithData("current", u.RoleCard)
	}
	return nil
}
