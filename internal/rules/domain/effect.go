package domain

import (
	"fmt"
	"strings"
)

// EffectKind 是效果注册表的键。
type EffectKind string

const (
	EffectHeal       EffectKind = "heal"
	EffectDamage     EffectKind = "damage"
	EffectLevelUp    EffectKind = "levelUp"
	EffectZoneChange EffectKind = "zoneChange"
	EffectEnterPlay  EffectKind = "enterPlay"
)

// EffectParams 是按效果种类区分的参数。
type EffectParams interface {
	EffectKind() EffectKind
}

// HealParams 的 Vars 是公式里可直接引用的命名常量。
type HealParams struct {
	Formula        string             `mapstructure:"formula"`
	CritMultiplier float64            `mapstructure:"critMultiplier"`
	Vars           map[string]float64 `mapstructure:"vars"`
}

func (HealParams) EffectKind() EffectKind { return EffectHeal }

type DamageParams struct {
	Formula        string             `mapstructure:"formula"`
	CritMultiplier float64            `mapstructure:"critMultiplier"`
	Vars           map[string]float64 `mapstructure:"vars"`
}

func (DamageParams) EffectKind() EffectKind { return EffectDamage }

type LevelUpParams struct {
	Levels int `mapstructure:"levels"`
}

func (LevelUpParams) EffectKind() EffectKind { return EffectLevelUp }

// ZoneChangeParams 把目标卡牌移到 To。
type ZoneChangeParams struct {
	To Zone `mapstructure:"to"`
}

func (ZoneChangeParams) EffectKind() EffectKind { return EffectZoneChange }

// EnterPlayParams 让来源卡牌进入场上区域并登记其触发器。
type EnterPlayParams struct{}

func (EnterPlayParams) EffectKind() EffectKind { return EffectEnterPlay }

// CustomParams 承载扩展效果的参数，由注册方自行解释。
type CustomParams struct {
	Kind   EffectKind
	Values map[string]any
}

func (p CustomParams) EffectKind() EffectKind { return p.Kind }

// Effect 是一张卡上的一个效果。
type Effect struct {
	Params  EffectParams
	Targets []TargetRestriction
}

func (e Effect) Kind() EffectKind {
	if e.Params == nil {
		return ""
	}
	return e.Params.EffectKind()
}

// NeedsTarget 没有任何目标约束的效果不需要选目标。
func (e Effect) NeedsTarget() bool {
	return len(e.Targets) > 0
}

// NewEffect 在构造时校验参数，非法组合直接报错。
func NewEffect(params EffectParams, targets ...TargetRestriction) (Effect, error) {
	if params == nil {
		return Effect{}, fmt.Errorf("effect params is nil")
	}
	switch p := params.(type) {
	case HealParams:
		if strings.TrimSpace(p.Formula) == "" {
			return Effect{}, fmt.Errorf("heal: formula is empty")
		}
	case DamageParams:
		if strings.TrimSpace(p.Formula) == "" {
			return Effect{}, fmt.Errorf("damage: formula is empty")
		}
	case LevelUpParams:
		if p.Levels <= 0 {
			return Effect{}, fmt.Errorf("levelUp: levels must be positive, got %d", p.Levels)
		}
	case ZoneChangeParams:
		if !p.To.CardZone() {
			return Effect{}, fmt.Errorf("zoneChange: %q is not a card zone", p.To)
		}
	case CustomParams:
		if p.Kind == "" {
			return Effect{}, fmt.Errorf("custom effect without kind")
		}
	}
	return Effect{Params: params, Targets: targets}, nil
}

// MustEffect 用于静态卡表和测试。
func MustEffect(params EffectParams, targets ...TargetRestriction) Effect {
	e, err := NewEffect(params, targets...)
	if err != nil {
		panic(err)
	}
	return e
}
