package requirement

import (
	"slices"

	"Skirmish/internal/rules/domain"
)

// Targets 返回同时满足全部约束的目标 id，单位目标在前、卡牌目标在后，顺序稳定。
// 约束为空时没有任何合法目标。
func (v *Validator) Targets(p domain.PlayerID, restrictions []domain.TargetRestriction, caster domain.UnitID) []string {
	if len(restrictions) == 0 {
		return nil
	}
	var out []string
	if kindOf(restrictions) != domain.TargetCard {
		casterUnit, hasCaster := v.store.Unit(caster)
		for _, u := range v.store.Units() {
			if v.unitMatches(p, u, restrictions, casterUnit, hasCaster) {
				out = append(out, string(u.ID))
			}
		}
		return out
	}
	for _, owner := range v.store.Players() {
		z, ok := v.store.Zone(owner)
		if !ok {
			continue
		}
		for _, zone := range []domain.Zone{domain.ZoneHand, domain.ZoneMainDeck, domain.ZoneAdvanceDeck, domain.ZoneDiscard, domain.ZoneRecharge, domain.ZoneInPlay} {
			for _, id := range *z.Pile(zone) {
				if cardMatches(p, owner, zone, restrictions) {
					out = append(out, string(id))
				}
			}
		}
	}
	return out
}

// IsValidTarget 判断候选 id 是否在合法目标集合里。
func (v *Validator) IsValidTarget(p domain.PlayerID, restrictions []domain.TargetRestriction, caster domain.UnitID, candidate string) bool {
	if candidate == "" {
		return false
	}
	return slices.Contains(v.Targets(p, restrictions, caster), candidate)
}

// CheckTarget 是 IsValidTarget 的错误版本。
func (v *Validator) CheckTarget(p domain.PlayerID, restrictions []domain.TargetRestriction, caster domain.UnitID, candidate string) error {
	if !v.IsValidTarget(p, restrictions, caster, candidate) {
		return domain.Illegal(domain.ReasonTargetInvalid).WithData("target", candidate)
	}
	return nil
}

// kindOf 以第一条约束的类型为准，缺省为单位。
func kindOf(rs []domain.TargetRestriction) domain.TargetKind {
	if rs[0].Kind == "" {
		return domain.TargetUnit
	}
	return rs[0].Kind
}

func (v *Validator) unitMatches(p domain.PlayerID, u domain.FieldedUnit, rs []domain.TargetRestriction, caster domain.FieldedUnit, hasCaster bool) bool {
	for _, r := range rs {
		if !r.Controller.Matches(p, u.Owner) {
			return false
		}
		if r.RoleFamily != "" && v.roleFamily(u) != r.RoleFamily {
			return false
		}
		if r.MinLevel > 0 && u.Level < r.MinLevel {
			return false
		}
		if r.Range > 0 {
			if !hasCaster || domain.Distance(caster.Position, u.Position) > r.Range {
				return false
			}
		}
	}
	return true
}

func cardMatches(p, owner domain.PlayerID, zone domain.Zone, rs []domain.TargetRestriction) bool {
	for _, r := range rs {
		if !r.Controller.Matches(p, owner) {
			return false
		}
		if r.Zone != "" && r.Zone != zone {
			return false
		}
	}
	return true
}
