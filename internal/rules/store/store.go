// Package store 持有一局游戏唯一的可变状态。
//
// 读取一律返回拷贝；写入只能走这里的入口，生命和等级的边界在这里统一收口。
// Store 不加锁，同一局的所有调用由 match actor 串行化。
package store

import (
	"fmt"

	"Skirmish/internal/rules/domain"
)

type Options struct {
	MaxLevel      int
	VictoryPoints int
}

type Store struct {
	st   domain.GameState
	opts Options
}

// New 接管 initial 的一份深拷贝。
func New(initial domain.GameState, opts Options) *Store {
	if opts.MaxLevel <= 0 {
		opts.MaxLevel = 20
	}
	if opts.VictoryPoints <= 0 {
		opts.VictoryPoints = 3
	}
	st := initial.Clone()
	if st.Zones == nil {
		st.Zones = map[domain.PlayerID]*domain.PlayerZone{}
	}
	if st.Units == nil {
		st.Units = map[domain.UnitID]*domain.FieldedUnit{}
	}
	if st.VictoryPoints == nil {
		st.VictoryPoints = map[domain.PlayerID]int{}
	}
	for _, p := range st.Players {
		if st.Zones[p] == nil {
			st.Zones[p] = &domain.PlayerZone{}
		}
	}
	return &Store{st: st, opts: opts}
}

func (s *Store) Options() Options { return s.opts }

// Snapshot 返回完整深拷贝，调用方随意修改不会影响权威状态。
func (s *Store) Snapshot() domain.GameState {
	return s.st.Clone()
}

func (s *Store) Phase() domain.Phase              { return s.st.Phase }
func (s *Store) Turn() int                        { return s.st.Turn }
func (s *Store) ActivePlayer() domain.PlayerID    { return s.st.ActivePlayer }
func (s *Store) Ended() bool                      { return s.st.Ended }
func (s *Store) Winner() domain.PlayerID          { return s.st.Winner }
func (s *Store) SummonUsed() bool                 { return s.st.SummonUsed }
func (s *Store) StackLen() int                    { return len(s.st.Stack) }
func (s *Store) HasPlayer(p domain.PlayerID) bool { return s.st.HasPlayer(p) }

func (s *Store) Players() []domain.PlayerID {
	return append([]domain.PlayerID(nil), s.st.Players...)
}

func (s *Store) Opponent(p domain.PlayerID) domain.PlayerID {
	return s.st.Opponent(p)
}

func (s *Store) VictoryPoints(p domain.PlayerID) int {
	return s.st.VictoryPoints[p]
}

func (s *Store) Unit(id domain.UnitID) (domain.FieldedUnit, bool) {
	u, ok := s.st.Units[id]
	if !ok {
		return domain.FieldedUnit{}, false
	}
	return u.Clone(), true
}

func (s *Store) Zone(p domain.PlayerID) (domain.PlayerZone, bool) {
	z, ok := s.st.Zones[p]
	if !ok {
		return domain.PlayerZone{}, false
	}
	return z.Clone(), true
}

func (s *Store) Position(c domain.Coord) (domain.BoardPosition, bool) {
	p, ok := s.st.Board.At(c)
	if !ok {
		return domain.BoardPosition{}, false
	}
	return *p, true
}

func (s *Store) Top() (domain.StackEntry, bool) {
	e, ok := s.st.TopOfStack()
	if !ok {
		return e, false
	}
	return e.Clone(), true
}

func (s *Store) Window() (domain.ResponseWindow, bool) {
	if s.st.Window == nil {
		return domain.ResponseWindow{}, false
	}
	return s.st.Window.Clone(), true
}

// Patch 是顶层字段的补丁，nil 字段不修改。
type Patch struct {
	Phase        *domain.Phase
	Turn         *int
	ActivePlayer *domain.PlayerID
	SummonUsed   *bool
}

func (s *Store) Apply(p Patch) {
	if p.Phase != nil {
		s.st.Phase = *p.Phase
	}
	if p.Turn != nil && *p.Turn >= s.st.Turn {
		s.st.Turn = *p.Turn
	}
	if p.ActivePlayer != nil && s.st.HasPlayer(*p.ActivePlayer) {
		s.st.ActivePlayer = *p.ActivePlayer
	}
	if p.SummonUsed != nil {
		s.st.SummonUsed = *p.SummonUsed
	}
}

// PatchZone 修改一名玩家的卡牌区域。单位列表和阵亡列表由单位入口维护，这里的改动会被丢弃；
// 修改后同一张卡出现在两个区域时整体回滚。
func (s *Store) PatchZone(p domain.PlayerID, fn func(z *domain.PlayerZone)) error {
	z, ok := s.st.Zones[p]
	if !ok {
		return domain.Missing(domain.ReasonPlayerNotFound, "player", p)
	}
	next := z.Clone()
	fn(&next)
	next.Units = z.Units
	next.Defeated = z.Defeated
	if dup, found := duplicateCard(&next); found {
		return fmt.Errorf("card %s would appear in more than one zone of %s", dup, p)
	}
	*z = next
	return nil
}

func duplicateCard(z *domain.PlayerZone) (domain.CardID, bool) {
	seen := map[domain.CardID]struct{}{}
	for _, pile := range [][]domain.CardID{z.Hand, z.MainDeck, z.AdvanceDeck, z.Discard, z.Recharge, z.InPlay} {
		for _, id := range pile {
			if _, ok := seen[id]; ok {
				return id, true
			}
			seen[id] = struct{}{}
		}
	}
	return "", false
}

// PatchPosition 修改格子的地形和建筑层，单位层只能通过单位入口修改。
func (s *Store) PatchPosition(c domain.Coord, fn func(p *domain.BoardPosition)) error {
	pos, ok := s.st.Board.At(c)
	if !ok {
		return domain.Illegal(domain.ReasonPositionInvalid).WithData("position", c.Key())
	}
	next := *pos
	fn(&next)
	next.Coord = pos.Coord
	next.Unit = pos.Unit
	*pos = next
	return nil
}

func (s *Store) AddPlayerZone(p domain.PlayerID, z domain.PlayerZone) {
	cz := z.Clone()
	s.st.Zones[p] = &cz
}
