package domain

type UnitID string

type StatusEffect struct {
	Name  string
	Turns int
}

// FieldedUnit 是场上单位。Stats/MaxHP/Movement 由合成流程得出，只在合成时改写。
type FieldedUnit struct {
	ID         UnitID
	Owner      PlayerID
	SummonCard CardID
	RoleCard   CardID
	Equipment  [SlotCount]CardID
	Level      int
	// RoleFromDefault 表示职业来自召唤卡自带的默认职业，不属于任何区域
	RoleFromDefault bool

	Stats    Stats
	MaxHP    int
	HP       int
	Movement int

	MovementUsed   int
	AttacksAllowed int
	AttacksUsed    int

	Position Coord
	Statuses []StatusEffect
}

func (u FieldedUnit) RemainingMovement() int {
	if r := u.Movement - u.MovementUsed; r > 0 {
		return r
	}
	return 0
}

func (u FieldedUnit) CanAttack() bool {
	return u.AttacksUsed < u.AttacksAllowed
}

func (u FieldedUnit) Clone() FieldedUnit {
	u.Statuses = cloneSlice(u.Statuses)
	return u
}
