package stack

import (
	"slices"

	"Skirmish/internal/rules/domain"
)

// OpenWindow 构造一个新的响应窗口，holder 先拿优先权。
func OpenWindow(holder domain.PlayerID, top string) domain.ResponseWindow {
	return domain.ResponseWindow{Origin: holder, Holder: holder, TopEntry: top}
}

// Advance 是响应窗口的续点函数：给定保存的窗口和一次让过，得到新窗口或恢复结算。
// 只有持有优先权的玩家能让过；所有玩家按座次依次让过后 resume 为 true。
func Advance(w domain.ResponseWindow, players []domain.PlayerID, passer domain.PlayerID) (domain.ResponseWindow, bool, error) {
	if passer != w.Holder {
		return w, false, domain.Illegal(domain.ReasonNotPriority).WithData("holder", w.Holder)
	}
	next := w.Clone()
	if !next.HasPassed(passer) {
		next.Passed = append(next.Passed, passer)
	}
	if len(next.Passed) >= len(players) {
		return next, true, nil
	}
	i := slices.Index(players, passer)
	for step := 1; step <= len(players); step++ {
		cand := players[(i+step)%len(players)]
		if !next.HasPassed(cand) {
			next.Holder = cand
			break
		}
	}
	return next, false, nil
}

// CanAdd 是速度锁规则：
// 栈内有 Counter 时只能再加 Counter；栈顶是 Reaction 时不能加 Action；
// 空栈时 Action 只能在 ACTION 阶段加入。
func CanAdd(snap *domain.GameState, speed domain.Speed) error {
	top, ok := snap.TopOfStack()
	if !ok {
		if speed == domain.SpeedAction && snap.Phase != domain.PhaseAction {
			return domain.Illegal(domain.ReasonWrongPhase).WithData("phase", snap.Phase)
		}
		return nil
	}
	for _, e := range snap.Stack {
		if e.Speed == domain.SpeedCounter && speed != domain.SpeedCounter {
			return domain.Illegal(domain.ReasonSpeedLocked).WithData("locked_by", domain.SpeedCounter.String())
		}
	}
	if top.Speed == domain.SpeedReaction && speed == domain.SpeedAction {
		return domain.Illegal(domain.ReasonSpeedLocked).WithData("locked_by", domain.SpeedReaction.String())
	}
	return nil
}
