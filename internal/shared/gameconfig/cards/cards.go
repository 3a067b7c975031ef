// Package cards 把卡牌文件加载成规则引擎使用的卡牌库，所有参数在加载时校验。
package cards

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/go-viper/mapstructure/v2"

	"Skirmish/internal/rules/domain"
	"Skirmish/internal/shared/config"
)

const starterFile = "starter.yml"

// LoadStarter 加载与本包放在一起的入门卡表。
func LoadStarter() (domain.MemoryCatalog, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("load starter cards failed: runtime.Caller(0) error")
	}
	return Load(filepath.Join(filepath.Dir(file), starterFile))
}

// Load 读取 path 指向的卡牌文件。任意一张卡非法时整体失败。
func Load(path string) (domain.MemoryCatalog, error) {
	var f cardFile
	if _, err := config.Load(path, &f); err != nil {
		return nil, err
	}
	out := make(domain.MemoryCatalog, len(f.Cards))
	for i, rc := range f.Cards {
		card, err := convertCard(rc)
		if err != nil {
			return nil, fmt.Errorf("cards[%d] %q: %w", i, rc.ID, err)
		}
		if _, dup := out[card.ID]; dup {
			return nil, fmt.Errorf("cards[%d]: duplicate card id %q", i, card.ID)
		}
		out[card.ID] = card
	}
	return out, nil
}

func convertCard(rc rawCard) (domain.Card, error) {
	kind, err := domain.ParseCardKind(rc.Kind)
	if err != nil {
		return domain.Card{}, err
	}
	c := domain.Card{ID: domain.CardID(rc.ID), Name: rc.Name, Kind: kind}
	switch {
	case kind == domain.KindSummon && rc.Summon != nil:
		c.Summon, err = convertSummon(rc.Summon)
	case kind == domain.KindSummonTemplate && rc.Template != nil:
		c.Template, err = convertTemplate(rc.Template)
	case kind == domain.KindRole && rc.Role != nil:
		c.Role, err = convertRole(rc.Role)
	case kind == domain.KindEquipment && rc.Equipment != nil:
		c.Equipment, err = convertEquipment(rc.Equipment)
	case kind.Playable() && rc.Play != nil:
		c.Play, err = convertPlay(rc.Play)
	}
	if err != nil {
		return domain.Card{}, err
	}
	return c, c.Validate()
}

func convertSummon(r *rawSummon) (*domain.SummonCard, error) {
	base, err := domain.StatsFromMap(r.BaseStats)
	if err != nil {
		return nil, err
	}
	growth, err := domain.GrowthFromMap(r.Growth)
	if err != nil {
		return nil, err
	}
	return &domain.SummonCard{
		TemplateID:  domain.CardID(r.Template),
		Species:     r.Species,
		Owner:       r.Owner,
		BaseStats:   base,
		Growth:      growth,
		DefaultRole: domain.CardID(r.DefaultRole),
	}, nil
}

func convertTemplate(r *rawTemplate) (*domain.SummonTemplate, error) {
	growth, err := domain.GrowthFromMap(r.Growth)
	if err != nil {
		return nil, err
	}
	t := &domain.SummonTemplate{Species: r.Species, Growth: growth}
	if len(r.StatRanges) > 0 {
		t.StatRanges = make(map[domain.Stat][2]int, len(r.StatRanges))
		for k, v := range r.StatRanges {
			st, ok := domain.ParseStat(k)
			if !ok {
				return nil, fmt.Errorf("unknown stat %q", k)
			}
			if len(v) != 2 || v[0] > v[1] {
				return nil, fmt.Errorf("stat range %s must be [min, max], got %v", k, v)
			}
			t.StatRanges[st] = [2]int{v[0], v[1]}
		}
	}
	return t, nil
}

func convertRole(r *rawRole) (*domain.RoleCard, error) {
	mods, err := domain.ModifiersFromMap(r.Modifiers)
	if err != nil {
		return nil, err
	}
	tier := r.Tier
	if tier <= 0 {
		tier = 1
	}
	return &domain.RoleCard{Family: r.Family, Tier: tier, Parent: domain.CardID(r.Parent), Modifiers: mods}, nil
}

func convertEquipment(r *rawEquipment) (*domain.EquipmentCard, error) {
	slot, err := domain.ParseEquipSlot(r.Slot)
	if err != nil {
		return nil, err
	}
	bonuses, err := domain.ModifiersFromMap(r.Bonuses)
	if err != nil {
		return nil, err
	}
	e := &domain.EquipmentCard{Slot: slot, Bonuses: bonuses, Power: r.Power, Range: r.Range, DamageStat: domain.STR}
	if r.DamageStat != "" {
		st, ok := domain.ParseStat(r.DamageStat)
		if !ok {
			return nil, fmt.Errorf("unknown damage stat %q", r.DamageStat)
		}
		e.DamageStat = st
	}
	return e, nil
}

func convertPlay(r *rawPlay) (*domain.Playable, error) {
	speed, err := domain.ParseSpeed(r.Speed)
	if err != nil {
		return nil, err
	}
	p := &domain.Playable{Speed: speed}
	if r.Destination != "" {
		z, err := domain.ParseZone(r.Destination)
		if err != nil || !z.CardZone() {
			return nil, fmt.Errorf("destination %q is not a card zone", r.Destination)
		}
		p.Destination = z
	}
	for i, rr := range r.Requirements {
		req, err := convertRequirement(rr)
		if err != nil {
			return nil, fmt.Errorf("requirements[%d]: %w", i, err)
		}
		p.Requirements = append(p.Requirements, req)
	}
	if p.Effects, err = convertEffects(r.Effects); err != nil {
		return nil, err
	}
	for i, rt := range r.Triggers {
		t, err := convertTrigger(rt)
		if err != nil {
			return nil, fmt.Errorf("triggers[%d]: %w", i, err)
		}
		p.Triggers = append(p.Triggers, t)
	}
	return p, nil
}

func convertEffects(raw []rawEffect) ([]domain.Effect, error) {
	out := make([]domain.Effect, 0, len(raw))
	for i, re := range raw {
		eff, err := convertEffect(re)
		if err != nil {
			return nil, fmt.Errorf("effects[%d]: %w", i, err)
		}
		out = append(out, eff)
	}
	return out, nil
}

// convertEffect 按 type 选择参数结构，多余或类型不符的参数直接报错。
func convertEffect(re rawEffect) (domain.Effect, error) {
	var params domain.EffectParams
	var err error
	switch domain.EffectKind(re.Type) {
	case domain.EffectHeal:
		params, err = decodeParams[domain.HealParams](re.Params)
	case domain.EffectDamage:
		params, err = decodeParams[domain.DamageParams](re.Params)
	case domain.EffectLevelUp:
		params, err = decodeParams[domain.LevelUpParams](re.Params)
	case domain.EffectZoneChange:
		params, err = decodeParams[domain.ZoneChangeParams](re.Params)
	case domain.EffectEnterPlay:
		params, err = decodeParams[domain.EnterPlayParams](re.Params)
	default:
		return domain.Effect{}, domain.ErrUnknownEffect.WithReason(domain.ReasonUnknownEffect).WithData("type", re.Type)
	}
	if err != nil {
		return domain.Effect{}, fmt.Errorf("%s params: %w", re.Type, err)
	}
	targets := make([]domain.TargetRestriction, 0, len(re.Targets))
	for _, rt := range re.Targets {
		t, err := convertTarget(rt)
		if err != nil {
			return domain.Effect{}, err
		}
		targets = append(targets, t)
	}
	return domain.NewEffect(params, targets...)
}

func convertRequirement(rr rawRequirement) (domain.Requirement, error) {
	switch rr.Type {
	case "controlsRoleFamily":
		r, err := decodeParams[domain.ControlsRoleFamily](rr.Params)
		if err == nil && r.Family == "" {
			err = fmt.Errorf("controlsRoleFamily: family is empty")
		}
		return r, err
	case "controlsUnits":
		r, err := decodeParams[domain.ControlsUnits](rr.Params)
		if err == nil && r.Min <= 0 {
			err = fmt.Errorf("controlsUnits: min must be positive")
		}
		return r, err
	case "hasTarget":
		rt, err := decodeParams[rawTarget](rr.Params)
		if err != nil {
			return nil, err
		}
		t, err := convertTarget(rt)
		return domain.HasTarget{Restriction: t}, err
	case "canPayCost":
		r, err := decodeParams[domain.CanPayCost](rr.Params)
		if err == nil && r.Amount <= 0 {
			err = fmt.Errorf("canPayCost: amount must be positive")
		}
		return r, err
	}
	return nil, fmt.Errorf("unknown requirement type %q", rr.Type)
}

func convertTarget(rt rawTarget) (domain.TargetRestriction, error) {
	ctrl, err := domain.ParseController(rt.Controller)
	if err != nil {
		return domain.TargetRestriction{}, err
	}
	t := domain.TargetRestriction{
		Kind:       domain.TargetKind(rt.Kind),
		Controller: ctrl,
		RoleFamily: rt.RoleFamily,
		MinLevel:   rt.MinLevel,
		Range:      rt.Range,
	}
	switch t.Kind {
	case "", domain.TargetUnit, domain.TargetCard:
	default:
		return t, fmt.Errorf("unknown target kind %q", rt.Kind)
	}
	if rt.Zone != "" {
		if t.Zone, err = domain.ParseZone(rt.Zone); err != nil {
			return t, err
		}
	}
	return t, nil
}

func convertTrigger(rt rawTrigger) (domain.TriggerDef, error) {
	if rt.On == "" {
		return domain.TriggerDef{}, fmt.Errorf("trigger event is empty")
	}
	ctrl, err := domain.ParseController(rt.Controller)
	if err != nil {
		return domain.TriggerDef{}, err
	}
	effects, err := convertEffects(rt.Effects)
	if err != nil {
		return domain.TriggerDef{}, err
	}
	return domain.TriggerDef{
		On:         domain.EventType(rt.On),
		Controller: ctrl,
		Phase:      domain.Phase(rt.Phase),
		Effects:    effects,
		TargetKey:  rt.TargetKey,
	}, nil
}

// decodeParams 把松散的 params 解码成强类型参数，未知字段视为错误。
func decodeParams[T any](in map[string]any) (T, error) {
	var out T
	if len(in) == 0 {
		return out, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(in); err != nil {
		return out, err
	}
	return out, nil
}
