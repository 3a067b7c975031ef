package trigger

import "Skirmish/internal/rules/domain"

// EventLog 保存最近 capacity 条事件，超出后丢弃最旧的。
type EventLog struct {
	capacity int
	events   []domain.GameEvent
}

func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = 512
	}
	return &EventLog{capacity: capacity}
}

func (l *EventLog) Append(evt domain.GameEvent) {
	if len(l.events) == l.capacity {
		copy(l.events, l.events[1:])
		l.events = l.events[:l.capacity-1]
	}
	l.events = append(l.events, evt.Clone())
}

// All 返回拷贝，最旧的在前。
func (l *EventLog) All() []domain.GameEvent {
	out := make([]domain.GameEvent, len(l.events))
	for i, e := range l.events {
		out[i] = e.Clone()
	}
	return out
}

func (l *EventLog) Len() int { return len(l.events) }
