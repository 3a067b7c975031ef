package board

import (
	"context"
	"math"

	"go.uber.org/zap"

	"Skirmish/internal/rules/domain"
)

const critMultiplier = 1.5

// HitChance = 90 + ACC/10，钳制到 [0,100]。
func HitChance(acc int) float64 {
	return clampPercent(90 + float64(acc)/10)
}

// CritChance = floor(LCK*0.3375 + 1.65)，钳制到 [0,100]。
func CritChance(luck int) int {
	return int(clampPercent(math.Floor(float64(luck)*0.3375 + 1.65)))
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// Damage = floor((stat + power) * 1.4 * (stat / def) * crit)，防御为 0 按 1 计，结果不为负。
func Damage(stat, power, def int, critical bool) int {
	if def <= 0 {
		def = 1
	}
	if stat < 0 {
		stat = 0
	}
	mult := 1.0
	if critical {
		mult = critMultiplier
	}
	v := float64(stat+power) * 1.4 * (float64(stat) / float64(def)) * mult
	if v < 0 {
		return 0
	}
	// 1.4 无法精确表示，加一个极小量避免整数结果被取整成少 1
	return int(math.Floor(v + 1e-9))
}

// AttackResult 描述一次攻击的完整结果。
type AttackResult struct {
	Attacker   domain.UnitID
	Target     domain.UnitID
	HitChance  float64
	CritChance int
	Hit        bool
	Critical   bool
	Damage     int
	TargetHP   int
	Defeat     *DefeatResult
}

// DefeatResult 描述一次击败及其胜利点奖励。
type DefeatResult struct {
	Unit          domain.FieldedUnit
	AwardedTo     domain.PlayerID
	VictoryPoints int
	GameEnded     bool
	Winner        domain.PlayerID
}

// ValidateAttack：攻击次数、敌方目标、武器射程。
func (r *Resolver) ValidateAttack(attackerID, targetID domain.UnitID) (domain.FieldedUnit, domain.FieldedUnit, error) {
	attacker, ok := r.store.Unit(attackerID)
	if !ok {
		return attacker, domain.FieldedUnit{}, domain.Missing(domain.ReasonUnitNotFound, "unit", attackerID)
	}
	target, ok := r.store.Unit(targetID)
	if !ok {
		return attacker, target, domain.Missing(domain.ReasonUnitNotFound, "unit", targetID)
	}
	if target.Owner == attacker.Owner {
		return attacker, target, domain.Illegal(domain.ReasonNotEnemyUnit).WithData("target", targetID)
	}
	if !attacker.CanAttack() {
		return attacker, target, domain.Illegal(domain.ReasonNoAttacks).WithData("unit", attackerID)
	}
	if d, rng := domain.Distance(attacker.Position, target.Position), r.Range(attacker); d > rng {
		return attacker, target, domain.Illegal(domain.ReasonOutOfRange).WithData("distance", d).WithData("range", rng)
	}
	return attacker, target, nil
}

// Attack 校验后掷骰：先判命中，命中后再判暴击。
func (r *Resolver) Attack(ctx context.Context, attackerID, targetID domain.UnitID) (AttackResult, error) {
	attacker, target, err := r.ValidateAttack(attackerID, targetID)
	if err != nil {
		return AttackResult{}, err
	}
	res := AttackResult{
		Attacker:   attackerID,
		Target:     targetID,
		HitChance:  HitChance(attacker.Stats[domain.ACC]),
		CritChance: CritChance(attacker.Stats[domain.LCK]),
		TargetHP:   target.HP,
	}
	if _, err := r.store.UpdateUnit(attackerID, func(u *domain.FieldedUnit) { u.AttacksUsed++ }); err != nil {
		return AttackResult{}, err
	}

	res.Hit = r.rollHit(res.HitChance)
	if res.Hit {
		res.Critical = r.rollCrit(res.CritChance)
		stat, defStat, power := domain.STR, domain.DEF, 0
		if w := r.weaponOf(attacker); w != nil {
			power = w.Power
			if w.DamageStat == domain.MAG {
				stat, defStat = domain.MAG, domain.RES
			}
		}
		res.Damage = Damage(attacker.Stats[stat], power, target.Stats[defStat], res.Critical)
		hp, defeat, err := r.ApplyDamage(ctx, targetID, res.Damage)
		if err != nil {
			return AttackResult{}, err
		}
		res.TargetHP = hp
		res.Defeat = defeat
	}
	r.log.WithContext(ctx).Debug("attack resolved",
		zap.String("attacker", string(attackerID)),
		zap.String("target", string(targetID)),
		zap.Bool("hit", res.Hit),
		zap.Bool("critical", res.Critical),
		zap.Int("damage", res.Damage),
		zap.Int("target_hp", res.TargetHP))
	return res, nil
}

func (r *Resolver) rollHit(chance float64) bool {
	return r.rng.Float64()*100 < chance
}

func (r *Resolver) rollCrit(chance int) bool {
	return r.rng.Intn(100) < chance
}

// ApplyDamage 扣血，生命降到 0 时击败单位。
func (r *Resolver) ApplyDamage(ctx context.Context, id domain.UnitID, amount int) (int, *DefeatResult, error) {
	u, ok := r.store.Unit(id)
	if !ok {
		return 0, nil, domain.Missing(domain.ReasonUnitNotFound, "unit", id)
	}
	if amount < 0 {
		amount = 0
	}
	hp, err := r.store.SetUnitHP(id, u.HP-amount)
	if err != nil {
		return 0, nil, err
	}
	if hp > 0 {
		return hp, nil, nil
	}
	defeat, err := r.Defeat(ctx, id)
	return 0, defeat, err
}

// Defeat 移除单位并给对手 1 个胜利点，可能直接结束对局。
func (r *Resolver) Defeat(ctx context.Context, id domain.UnitID) (*DefeatResult, error) {
	u, err := r.store.RemoveUnit(id)
	if err != nil {
		return nil, err
	}
	opp := r.store.Opponent(u.Owner)
	total, ended := r.store.AddVictoryPoints(opp, 1)
	r.log.WithContext(ctx).Info("unit defeated",
		zap.String("unit", string(id)),
		zap.String("owner", string(u.Owner)),
		zap.String("awarded_to", string(opp)),
		zap.Int("victory_points", total),
		zap.Bool("game_ended", ended))
	return &DefeatResult{
		Unit:          u,
		AwardedTo:     opp,
		VictoryPoints: total,
		GameEnded:     ended,
		Winner:        r.store.Winner(),
	}, nil
}
