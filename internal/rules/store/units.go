package store

import (
	"sort"

	"Skirmish/internal/rules/domain"
)

// PutUnit 把新单位放上棋盘并加入控制者的单位列表。
func (s *Store) PutUnit(u domain.FieldedUnit) error {
	if _, exists := s.st.Units[u.ID]; exists {
		return domain.Illegal(domain.ReasonDuplicateRegister).WithData("unit", u.ID)
	}
	z, ok := s.st.Zones[u.Owner]
	if !ok {
		return domain.Missing(domain.ReasonPlayerNotFound, "player", u.Owner)
	}
	pos, ok := s.st.Board.At(u.Position)
	if !ok {
		return domain.Illegal(domain.ReasonPositionInvalid).WithData("position", u.Position.Key())
	}
	if pos.Unit != "" {
		return domain.Illegal(domain.ReasonPositionOccupied).WithData("position", u.Position.Key())
	}
	cu := u.Clone()
	s.clamp(&cu)
	s.st.Units[cu.ID] = &cu
	pos.Unit = cu.ID
	z.Units = append(z.Units, cu.ID)
	return nil
}

// UpdateUnit 修改单位，id、控制者和坐标不可在这里改；改完统一收口生命和等级。
func (s *Store) UpdateUnit(id domain.UnitID, fn func(u *domain.FieldedUnit)) (domain.FieldedUnit, error) {
	u, ok := s.st.Units[id]
	if !ok {
		return domain.FieldedUnit{}, domain.Missing(domain.ReasonUnitNotFound, "unit", id)
	}
	next := u.Clone()
	fn(&next)
	next.ID, next.Owner, next.Position = u.ID, u.Owner, u.Position
	s.clamp(&next)
	*u = next
	return next.Clone(), nil
}

// SetUnitHP 钳制到 [0, MaxHP]，返回实际写入的值。
func (s *Store) SetUnitHP(id domain.UnitID, hp int) (int, error) {
	u, err := s.UpdateUnit(id, func(u *domain.FieldedUnit) { u.HP = hp })
	return u.HP, err
}

// SetUnitLevel 钳制到 [1, MaxLevel]。
func (s *Store) SetUnitLevel(id domain.UnitID, level int) (int, error) {
	u, err := s.UpdateUnit(id, func(u *domain.FieldedUnit) { u.Level = level })
	return u.Level, err
}

// MoveUnit 只改坐标和单位层，合法性由棋盘模块先校验。
func (s *Store) MoveUnit(id domain.UnitID, to domain.Coord) error {
	u, ok := s.st.Units[id]
	if !ok {
		return domain.Missing(domain.ReasonUnitNotFound, "unit", id)
	}
	dst, ok := s.st.Board.At(to)
	if !ok {
		return domain.Illegal(domain.ReasonPositionInvalid).WithData("position", to.Key())
	}
	if dst.Unit != "" && dst.Unit != id {
		return domain.Illegal(domain.ReasonPositionOccupied).WithData("position", to.Key())
	}
	if src, ok := s.st.Board.At(u.Position); ok && src.Unit == id {
		src.Unit = ""
	}
	dst.Unit = id
	u.Position = to
	return nil
}

// RemoveUnit 从棋盘、控制者单位列表和单位表中移除，并记入阵亡列表。
func (s *Store) RemoveUnit(id domain.UnitID) (domain.FieldedUnit, error) {
	u, ok := s.st.Units[id]
	if !ok {
		return domain.FieldedUnit{}, domain.Missing(domain.ReasonUnitNotFound, "unit", id)
	}
	if pos, ok := s.st.Board.At(u.Position); ok && pos.Unit == id {
		pos.Unit = ""
	}
	if z, ok := s.st.Zones[u.Owner]; ok {
		z.RemoveUnit(id)
		z.Defeated = append(z.Defeated, domain.DefeatedUnit{Unit: id, SummonCard: u.SummonCard, Turn: s.st.Turn})
	}
	delete(s.st.Units, id)
	return u.Clone(), nil
}

// ResetTurnCounters 清空一名玩家所有单位的移动和攻击计数。
func (s *Store) ResetTurnCounters(p domain.PlayerID) {
	for _, u := range s.st.UnitsOf(p) {
		u.MovementUsed = 0
		u.AttacksUsed = 0
	}
}

func (s *Store) UnitIDsOf(p domain.PlayerID) []domain.UnitID {
	z, ok := s.st.Zones[p]
	if !ok {
		return nil
	}
	return append([]domain.UnitID(nil), z.Units...)
}

func (s *Store) clamp(u *domain.FieldedUnit) {
	if u.Level < 1 {
		u.Level = 1
	}
	if u.Level > s.opts.MaxLevel {
		u.Level = s.opts.MaxLevel
	}
	if u.MaxHP < 0 {
		u.MaxHP = 0
	}
	if u.HP < 0 {
		u.HP = 0
	}
	if u.HP > u.MaxHP {
		u.HP = u.MaxHP
	}
	if u.MovementUsed < 0 {
		u.MovementUsed = 0
	}
}

// Units 返回全部单位的拷贝，按 id 排序保证遍历顺序稳定。
func (s *Store) Units() []domain.FieldedUnit {
	out := make([]domain.FieldedUnit, 0, len(s.st.Units))
	for _, u := range s.st.Units {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
