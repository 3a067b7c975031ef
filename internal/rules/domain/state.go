package domain

type Phase string

const (
	PhaseSetup  Phase = "SETUP"
	PhaseDraw   Phase = "DRAW"
	PhaseLevel  Phase = "LEVEL"
	PhaseAction Phase = "ACTION"
	PhaseEnd    Phase = "END"
)

// GameState 是一局游戏的完整状态。只由 store 持有可变副本，其余地方拿到的都是快照。
type GameState struct {
	Turn         int
	Players      []PlayerID
	ActivePlayer PlayerID
	Phase        Phase
	Board        Board

	Zones         map[PlayerID]*PlayerZone
	Units         map[UnitID]*FieldedUnit
	VictoryPoints map[PlayerID]int

	Stack  []StackEntry
	Window *ResponseWindow

	SummonUsed bool
	Ended      bool
	Winner     PlayerID
}

// AwaitingResponse 为真时结算暂停，等待响应窗口关闭。
func (s *GameState) AwaitingResponse() bool {
	return s.Window != nil
}

// PriorityPlayer 响应窗口打开时是持有优先权的玩家，否则是行动玩家。
func (s *GameState) PriorityPlayer() PlayerID {
	if s.Window != nil {
		return s.Window.Holder
	}
	return s.ActivePlayer
}

// Opponent 只适用于两人对局。
func (s *GameState) Opponent(p PlayerID) PlayerID {
	for _, other := range s.Players {
		if other != p {
			return other
		}
	}
	return ""
}

func (s *GameState) HasPlayer(p PlayerID) bool {
	return indexOf(s.Players, p) >= 0
}

// SideOf 按座次：Players[0] 先手。
func (s *GameState) SideOf(p PlayerID) Side {
	switch indexOf(s.Players, p) {
	case 0:
		return SideFirst
	case 1:
		return SideSecond
	}
	return SideNeutral
}

// TopOfStack 栈顶是切片末尾。
func (s *GameState) TopOfStack() (StackEntry, bool) {
	if len(s.Stack) == 0 {
		return StackEntry{}, false
	}
	return s.Stack[len(s.Stack)-1], true
}

// UnitsOf 按 PlayerZone.Units 的顺序返回单位。
func (s *GameState) UnitsOf(p PlayerID) []*FieldedUnit {
	z, ok := s.Zones[p]
	if !ok {
		return nil
	}
	out := make([]*FieldedUnit, 0, len(z.Units))
	for _, id := range z.Units {
		if u, ok := s.Units[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

// Clone 深拷贝，返回的副本与原状态不共享任何可变内存。
func (s *GameState) Clone() GameState {
	out := *s
	out.Players = cloneSlice(s.Players)
	out.Board = s.Board.Clone()
	out.Zones = make(map[PlayerID]*PlayerZone, len(s.Zones))
	for p, z := range s.Zones {
		cz := z.Clone()
		out.Zones[p] = &cz
	}
	out.Units = make(map[UnitID]*FieldedUnit, len(s.Units))
	for id, u := range s.Units {
		cu := u.Clone()
		out.Units[id] = &cu
	}
	out.VictoryPoints = make(map[PlayerID]int, len(s.VictoryPoints))
	for p, v := range s.VictoryPoints {
		out.VictoryPoints[p] = v
	}
	out.Stack = make([]StackEntry, len(s.Stack))
	for i, e := range s.Stack {
		out.Stack[i] = e.Clone()
	}
	if s.Window != nil {
		w := s.Window.Clone()
		out.Window = &w
	}
	return out
}
