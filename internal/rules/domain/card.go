package domain

import "fmt"

type CardID string

// CardKind 是封闭的卡牌种类集合。
type CardKind string

const (
	KindSummon         CardKind = "summon"
	KindSummonTemplate CardKind = "summonTemplate"
	KindRole           CardKind = "role"
	KindEquipment      CardKind = "equipment"
	KindAction         CardKind = "action"
	KindBuilding       CardKind = "building"
	KindQuest          CardKind = "quest"
	KindCounter        CardKind = "counter"
	KindAdvance        CardKind = "advance"
)

func ParseCardKind(s string) (CardKind, error) {
	switch k := CardKind(s); k {
	case KindSummon, KindSummonTemplate, KindRole, KindEquipment,
		KindAction, KindBuilding, KindQuest, KindCounter, KindAdvance:
		return k, nil
	}
	return "", fmt.Errorf("unknown card kind %q", s)
}

// Playable 表示能走结算栈的种类。
func (k CardKind) Playable() bool {
	switch k {
	case KindAction, KindBuilding, KindQuest, KindCounter, KindAdvance:
		return true
	}
	return false
}

// Speed 越大越快。
type Speed int

const (
	SpeedAction Speed = iota + 1
	SpeedReaction
	SpeedCounter
)

func (s Speed) String() string {
	switch s {
	case SpeedAction:
		return "action"
	case SpeedReaction:
		return "reaction"
	case SpeedCounter:
		return "counter"
	}
	return fmt.Sprintf("Speed(%d)", int(s))
}

func ParseSpeed(s string) (Speed, error) {
	switch s {
	case "", "action":
		return SpeedAction, nil
	case "reaction":
		return SpeedReaction, nil
	case "counter":
		return SpeedCounter, nil
	}
	return 0, fmt.Errorf("unknown speed %q", s)
}

// EquipSlot 的声明顺序就是合成时装备的叠加顺序。
type EquipSlot int

const (
	SlotWeapon EquipSlot = iota
	SlotOffhand
	SlotArmor
	SlotAccessory

	SlotCount
)

var slotNames = [SlotCount]string{"weapon", "offhand", "armor", "accessory"}

func (s EquipSlot) String() string {
	if s < 0 || s >= SlotCount {
		return fmt.Sprintf("EquipSlot(%d)", int(s))
	}
	return slotNames[s]
}

func ParseEquipSlot(s string) (EquipSlot, error) {
	for i, n := range slotNames {
		if n == s {
			return EquipSlot(i), nil
		}
	}
	return 0, fmt.Errorf("unknown equipment slot %q", s)
}

// Card 是卡牌定义。Kind 决定哪个载荷字段有效，其余为 nil。
type Card struct {
	ID   CardID
	Name string
	Kind CardKind

	Summon    *SummonCard
	Template  *SummonTemplate
	Role      *RoleCard
	Equipment *EquipmentCard
	Play      *Playable
}

// Validate 检查种类和载荷是否一致。
func (c Card) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("card id is empty")
	}
	var ok bool
	switch c.Kind {
	case KindSummon:
		ok = c.Summon != nil
	case KindSummonTemplate:
		ok = c.Template != nil
	case KindRole:
		ok = c.Role != nil
	case KindEquipment:
		ok = c.Equipment != nil
	default:
		if !c.Kind.Playable() {
			return fmt.Errorf("card %s: unknown kind %q", c.ID, c.Kind)
		}
		ok = c.Play != nil
	}
	if !ok {
		return fmt.Errorf("card %s: payload missing for kind %s", c.ID, c.Kind)
	}
	return nil
}

// SummonCard 是具体的召唤物实例卡。Growth 为空时回落到模板成长。
type SummonCard struct {
	TemplateID  CardID
	Species     string
	Owner       string
	BaseStats   Stats
	Growth      GrowthTable
	DefaultRole CardID
}

// SummonTemplate 描述一个物种的成长和属性区间。
type SummonTemplate struct {
	Species    string
	Growth     GrowthTable
	StatRanges map[Stat][2]int
}

// RoleCard 的 Modifiers 按属性相乘，Tier>1 时必须从 Parent 进阶。
type RoleCard struct {
	Family    string
	Tier      int
	Parent    CardID
	Modifiers StatModifiers
}

type EquipmentCard struct {
	Slot       EquipSlot
	Bonuses    StatModifiers
	Power      int
	Range      int
	DamageStat Stat
}

// Playable 是走结算栈的卡牌载荷。
type Playable struct {
	Speed        Speed
	Destination  Zone
	Requirements []Requirement
	Effects      []Effect
	Triggers     []TriggerDef
}

// Catalog 按 id 查找卡牌定义。
type Catalog interface {
	Card(id CardID) (Card, bool)
}

// MemoryCatalog 是内存实现，测试和加载器共用。
type MemoryCatalog map[CardID]Card

func NewMemoryCatalog(cards ...Card) MemoryCatalog {
	m := make(MemoryCatalog, len(cards))
	for _, c := range cards {
		m[c.ID] = c
	}
	return m
}

func (m MemoryCatalog) Card(id CardID) (Card, bool) {
	c, ok := m[id]
	return c, ok
}
