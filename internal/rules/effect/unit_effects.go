package effect

import (
	"Skirmish/internal/rules/domain"
)

type healHandler struct{ base }

func (h healHandler) Validate(ec Context, snap *domain.GameState) error {
	if _, ok := ec.Effect.Params.(domain.HealParams); !ok {
		return domain.Illegal(domain.ReasonInvalidParams).WithData("effect", ec.Effect.Kind())
	}
	u, err := h.targetUnit(ec, snap)
	if err != nil {
		return err
	}
	if u.HP >= u.MaxHP {
		return domain.Illegal(domain.ReasonTargetFullHP).WithData("unit", u.ID)
	}
	return h.checkRestrictions(ec)
}

func (h healHandler) FindTargets(ec Context, snap *domain.GameState) []string {
	var out []string
	for _, id := range h.candidates(ec) {
		if u, ok := snap.Units[domain.UnitID(id)]; ok && u.HP < u.MaxHP {
			out = append(out, id)
		}
	}
	return out
}

func (h healHandler) Execute(ec Context, snap *domain.GameState) Result {
	p := ec.Effect.Params.(domain.HealParams)
	u, _ := h.targetUnit(ec, snap)
	amount, crit := h.amount(ec, snap, p.Formula, p.CritMultiplier, p.Vars)
	hp, err := h.d.Store.SetUnitHP(u.ID, u.HP+amount)
	if err != nil {
		return failed("heal: %v", err)
	}
	msg := "healed"
	if crit {
		msg = "critical heal"
	}
	return Result{
		Success: true,
		Message: msg,
		Changes: []Change{{Kind: ChangeUnitHealed, Player: u.Owner, Unit: u.ID, Amount: hp - u.HP}},
	}
}

type damageHandler struct{ base }

func (h damageHandler) Validate(ec Context, snap *domain.GameState) error {
	if _, ok := ec.Effect.Params.(domain.DamageParams); !ok {
		return domain.Illegal(domain.ReasonInvalidParams).WithData("effect", ec.Effect.Kind())
	}
	if _, err := h.targetUnit(ec, snap); err != nil {
		return err
	}
	return h.checkRestrictions(ec)
}

func (h damageHandler) FindTargets(ec Context, _ *domain.GameState) []string {
	return h.candidates(ec)
}

// Execute 伤害归零时走棋盘的击败流程：移除单位、对手加分、可能结束对局。
func (h damageHandler) Execute(ec Context, snap *domain.GameState) Result {
	p := ec.Effect.Params.(domain.DamageParams)
	u, _ := h.targetUnit(ec, snap)
	amount, crit := h.amount(ec, snap, p.Formula, p.CritMultiplier, p.Vars)
	hp, defeat, err := h.d.Board.ApplyDamage(ec.context(), u.ID, amount)
	if err != nil {
		return failed("damage: %v", err)
	}
	changes := []Change{{Kind: ChangeUnitDamaged, Player: u.Owner, Unit: u.ID, Amount: u.HP - hp}}
	if defeat != nil {
		changes = append(changes,
			Change{Kind: ChangeUnitDefeated, Player: u.Owner, Unit: u.ID, Card: u.SummonCard},
			Change{Kind: ChangeVictoryPoint, Player: defeat.AwardedTo, Amount: defeat.VictoryPoints},
		)
		if defeat.GameEnded {
			changes = append(changes, Change{Kind: ChangeGameEnded, Player: defeat.Winner})
		}
	}
	msg := "damaged"
	if crit {
		msg = "critical damage"
	}
	return Result{Success: true, Message: msg, Changes: changes}
}

type levelUpHandler struct{ base }

func (h levelUpHandler) Validate(ec Context, snap *domain.GameState) error {
	if _, ok := ec.Effect.Params.(domain.LevelUpParams); !ok {
		return domain.Illegal(domain.ReasonInvalidParams).WithData("effect", ec.Effect.Kind())
	}
	u, err := h.targetUnit(ec, snap)
	if err != nil {
		return err
	}
	if u.Level >= h.d.MaxLevel {
		return domain.Illegal(domain.ReasonLevelCap).WithData("unit", u.ID)
	}
	return h.checkRestrictions(ec)
}

func (h levelUpHandler) FindTargets(ec Context, snap *domain.GameState) []string {
	var out []string
	for _, id := range h.candidates(ec) {
		if u, ok := snap.Units[domain.UnitID(id)]; ok && u.Level < h.d.MaxLevel {
			out = append(out, id)
		}
	}
	return out
}

// Execute 升级后重新合成属性，当前生命按比例缩放。
func (h levelUpHandler) Execute(ec Context, snap *domain.GameState) Result {
	p := ec.Effect.Params.(domain.LevelUpParams)
	u, _ := h.targetUnit(ec, snap)
	next := u.Clone()
	next.Level = min(u.Level+p.Levels, h.d.MaxLevel)
	next, err := h.d.Synth.Resynthesize(next)
	if err != nil {
		return failed("levelUp: %v", err)
	}
	stored, err := h.d.Store.UpdateUnit(u.ID, func(cur *domain.FieldedUnit) {
		cur.Level = next.Level
		cur.Stats = next.Stats
		cur.MaxHP = next.MaxHP
		cur.HP = next.HP
		cur.Movement = next.Movement
	})
	if err != nil {
		return failed("levelUp: %v", err)
	}
	return Result{
		Success: true,
		Message: "leveled up",
		Changes: []Change{{Kind: ChangeUnitLeveled, Player: u.Owner, Unit: u.ID, Amount: stored.Level - u.Level}},
	}
}
