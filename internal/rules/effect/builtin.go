package effect

import (
	"math"

	"Skirmish/internal/rules/board"
	"Skirmish/internal/rules/domain"
	"Skirmish/internal/rules/formula"
	"Skirmish/internal/rules/requirement"
	"Skirmish/internal/rules/store"
	"Skirmish/internal/rules/synthesis"
)

// Deps 是内置效果依赖的组件。
type Deps struct {
	Store     *store.Store
	Board     *board.Resolver
	Synth     *synthesis.Synthesizer
	Validator *requirement.Validator
	Eval      *formula.Evaluator
	Rand      domain.Rand
	MaxLevel  int
}

// NewDefaultRegistry 注册治疗、伤害、升级、区域移动、进场五种内置效果，注册失败直接 panic。
func NewDefaultRegistry(d Deps) *Registry {
	if d.MaxLevel <= 0 {
		d.MaxLevel = d.Store.Options().MaxLevel
	}
	r := NewRegistry()
	b := base{d: d}
	for kind, h := range map[domain.EffectKind]Handler{
		domain.EffectHeal:       healHandler{b},
		domain.EffectDamage:     damageHandler{b},
		domain.EffectLevelUp:    levelUpHandler{b},
		domain.EffectZoneChange: zoneChangeHandler{b},
		domain.EffectEnterPlay:  enterPlayHandler{b},
	} {
		if err := r.Register(kind, h); err != nil {
			panic(err)
		}
	}
	return r
}

type base struct {
	d Deps
}

// targetUnit 从快照里取目标单位。
func (b base) targetUnit(ec Context, snap *domain.GameState) (*domain.FieldedUnit, error) {
	if ec.Target == "" {
		return nil, domain.Illegal(domain.ReasonTargetInvalid)
	}
	u, ok := snap.Units[domain.UnitID(ec.Target)]
	if !ok {
		return nil, domain.Missing(domain.ReasonUnitNotFound, "unit", ec.Target)
	}
	return u, nil
}

// checkRestrictions 效果声明了目标约束时，目标必须在合法集合里。
func (b base) checkRestrictions(ec Context) error {
	if !ec.Effect.NeedsTarget() {
		return nil
	}
	return b.d.Validator.CheckTarget(ec.Player, ec.Effect.Targets, ec.Caster, ec.Target)
}

func (b base) candidates(ec Context) []string {
	return b.d.Validator.Targets(ec.Player, ec.Effect.Targets, ec.Caster)
}

// amount 计算公式数值，命中暴击时乘以倍率，结果向下取整且不为负。
func (b base) amount(ec Context, snap *domain.GameState, expr string, critMult float64, consts map[string]float64) (int, bool) {
	vars := formula.Vars{}
	caster := snap.Units[ec.Caster]
	formula.BindUnit(vars, "caster", caster)
	formula.BindUnit(vars, "target", snap.Units[domain.UnitID(ec.Target)])
	formula.Merge(vars, consts)
	v := b.d.Eval.Evaluate(ec.context(), expr, vars)

	crit := false
	if critMult > 0 && caster != nil && b.d.Rand != nil {
		crit = b.d.Rand.Intn(100) < board.CritChance(caster.Stats[domain.LCK])
		if crit {
			v *= critMult
		}
	}
	n := int(math.Floor(v + 1e-9))
	if n < 0 {
		n = 0
	}
	return n, crit
}
