package store

import "Skirmish/internal/rules/domain"

// AddVictoryPoints 只增不减；达到阈值立即结束对局，不论当前阶段。
func (s *Store) AddVictoryPoints(p domain.PlayerID, n int) (total int, ended bool) {
	if !s.st.HasPlayer(p) || n <= 0 {
		return s.st.VictoryPoints[p], s.st.Ended
	}
	s.st.VictoryPoints[p] += n
	total = s.st.VictoryPoints[p]
	if total >= s.opts.VictoryPoints && !s.st.Ended {
		s.EndGame(p)
	}
	return total, s.st.Ended
}

func (s *Store) EndGame(winner domain.PlayerID) {
	if s.st.Ended {
		return
	}
	s.st.Ended = true
	s.st.Winner = winner
}

// PushEntry 压栈，栈顶在末尾。
func (s *Store) PushEntry(e domain.StackEntry) {
	s.st.Stack = append(s.st.Stack, e.Clone())
}

func (s *Store) PopEntry() (domain.StackEntry, bool) {
	n := len(s.st.Stack)
	if n == 0 {
		return domain.StackEntry{}, false
	}
	e := s.st.Stack[n-1]
	s.st.Stack = s.st.Stack[: n-1 : n-1]
	return e, true
}

// ClearStack 清空结算栈并关闭响应窗口，返回被丢弃的条目。
func (s *Store) ClearStack() []domain.StackEntry {
	dropped := s.st.Stack
	s.st.Stack = nil
	s.st.Window = nil
	return dropped
}

// SetWindow 打开或关闭（nil）响应窗口。
func (s *Store) SetWindow(w *domain.ResponseWindow) {
	if w == nil {
		s.st.Window = nil
		return
	}
	cw := w.Clone()
	s.st.Window = &cw
}
