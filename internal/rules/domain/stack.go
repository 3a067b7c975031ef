package domain

// StackEntry 是结算栈上的一项。Targets 与 Effects 按下标一一对应。
type StackEntry struct {
	ID         string
	Owner      PlayerID
	Speed      Speed
	SourceCard CardID
	Caster     UnitID
	Effects    []Effect
	Targets    []string
	// Destination 结算后来源卡牌的去处，空表示弃牌区
	Destination Zone
	Trigger     *TriggerContext
}

// TriggerContext 标记由触发器产生的条目，这类条目没有手牌来源。
type TriggerContext struct {
	TriggerID string
	Event     GameEvent
}

func (e StackEntry) TargetFor(i int) string {
	if i < 0 || i >= len(e.Targets) {
		return ""
	}
	return e.Targets[i]
}

func (e StackEntry) Clone() StackEntry {
	e.Effects = cloneSlice(e.Effects)
	e.Targets = cloneSlice(e.Targets)
	if e.Trigger != nil {
		t := *e.Trigger
		t.Event = t.Event.Clone()
		e.Trigger = &t
	}
	return e
}

// ResponseWindow 是暂停结算时保存的续点：谁拿着优先权，谁已经让过。
// 所有玩家依次让过之后回到 Origin，结算从栈顶继续。
type ResponseWindow struct {
	Origin PlayerID
	Holder PlayerID
	Passed []PlayerID
	// TopEntry 暂停时的栈顶条目 id
	TopEntry string
}

func (w ResponseWindow) HasPassed(p PlayerID) bool {
	return indexOf(w.Passed, p) >= 0
}

func (w ResponseWindow) Clone() ResponseWindow {
	w.Passed = cloneSlice(w.Passed)
	return w
}
