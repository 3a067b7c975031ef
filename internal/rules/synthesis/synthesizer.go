package synthesis

import (
	"fmt"

	"Skirmish/internal/rules/domain"
)

// Synthesizer 负责按卡牌 id 查卡并调用 Synthesize。
type Synthesizer struct {
	catalog       domain.Catalog
	startingLevel int
}

func NewSynthesizer(catalog domain.Catalog, startingLevel int) *Synthesizer {
	if startingLevel <= 0 {
		startingLevel = 1
	}
	return &Synthesizer{catalog: catalog, startingLevel: startingLevel}
}

// Loadout 描述一个单位当前挂载的卡牌。
type Loadout struct {
	Summon    domain.CardID
	Role      domain.CardID
	Equipment [domain.SlotCount]domain.CardID
	Level     int
}

// Build 按 Loadout 查卡并组装 Input。
func (s *Synthesizer) Build(l Loadout) (Input, error) {
	summon, err := s.summon(l.Summon)
	if err != nil {
		return Input{}, err
	}
	in := Input{Base: summon.BaseStats, Growth: summon.Growth, Level: l.Level}
	if len(in.Growth) == 0 && summon.TemplateID != "" {
		if tpl, ok := s.catalog.Card(summon.TemplateID); ok && tpl.Template != nil {
			in.Growth = tpl.Template.Growth
		}
	}
	if l.Role != "" {
		c, ok := s.catalog.Card(l.Role)
		if !ok || c.Role == nil {
			return Input{}, domain.Missing(domain.ReasonCardNotFound, "role_card", l.Role)
		}
		in.Role = c.Role
	}
	for slot, id := range l.Equipment {
		if id == "" {
			continue
		}
		c, ok := s.catalog.Card(id)
		if !ok || c.Equipment == nil {
			return Input{}, domain.Missing(domain.ReasonCardNotFound, "equipment_card", id)
		}
		if c.Equipment.Slot != domain.EquipSlot(slot) {
			return Input{}, fmt.Errorf("equipment %s is %s, mounted on %s", id, c.Equipment.Slot, domain.EquipSlot(slot))
		}
		in.Equipment[slot] = c.Equipment
	}
	return in, nil
}

// Field 在召唤时创建单位：初始等级、满血、默认职业。
func (s *Synthesizer) Field(id domain.UnitID, owner domain.PlayerID, summonCard domain.CardID, pos domain.Coord) (domain.FieldedUnit, error) {
	summon, err := s.summon(summonCard)
	if err != nil {
		return domain.FieldedUnit{}, err
	}
	l := Loadout{Summon: summonCard, Role: summon.DefaultRole, Level: s.startingLevel}
	in, err := s.Build(l)
	if err != nil {
		return domain.FieldedUnit{}, err
	}
	res := Synthesize(in)
	return domain.FieldedUnit{
		ID:              id,
		Owner:           owner,
		SummonCard:      summonCard,
		RoleCard:        l.Role,
		RoleFromDefault: l.Role != "",
		Level:           l.Level,
		Stats:           res.Stats,
		MaxHP:           res.MaxHP,
		HP:              res.MaxHP,
		Movement:        res.Movement,
		AttacksAllowed:  1,
		Position:        pos,
	}, nil
}

// Resynthesize 用单位当前的卡牌和等级重新计算，当前生命按比例缩放。
func (s *Synthesizer) Resynthesize(u domain.FieldedUnit) (domain.FieldedUnit, error) {
	in, err := s.Build(Loadout{Summon: u.SummonCard, Role: u.RoleCard, Equipment: u.Equipment, Level: u.Level})
	if err != nil {
		return domain.FieldedUnit{}, err
	}
	res := Synthesize(in)
	u.HP = ScaleHP(u.HP, u.MaxHP, res.MaxHP)
	u.Stats = res.Stats
	u.MaxHP = res.MaxHP
	u.Movement = res.Movement
	return u, nil
}

func (s *Synthesizer) summon(id domain.CardID) (*domain.SummonCard, error) {
	c, ok := s.catalog.Card(id)
	if !ok || c.Summon == nil {
		return nil, domain.Missing(domain.ReasonCardNotFound, "summon_card", id)
	}
	return c.Summon, nil
}
