// Package trigger 把效果结果转成游戏事件，并匹配场上卡牌登记的触发器。
package trigger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Skirmish/internal/rules/domain"
	"Skirmish/internal/rules/effect"
	"Skirmish/modules/kit/logx"
)

// Trigger 是一条已登记的触发器。
type Trigger struct {
	ID     string
	Owner  domain.PlayerID
	Source domain.CardID
	Def    domain.TriggerDef
}

type Option func(*Detector)

// WithClock 替换事件时间戳来源。
func WithClock(now func() time.Time) Option {
	return func(d *Detector) { d.now = now }
}

// WithEventLog 指定事件日志，nil 表示不记录。
func WithEventLog(l *EventLog) Option {
	return func(d *Detector) { d.history = l }
}

type Detector struct {
	catalog     domain.Catalog
	triggers    []Trigger
	now         func() time.Time
	history     *EventLog
	subscribers []func(domain.GameEvent)
	log         logx.Logger
}

func NewDetector(catalog domain.Catalog, log logx.Logger, opts ...Option) *Detector {
	d := &Detector{catalog: catalog, now: time.Now, log: logx.OrNop(log)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Subscribe 注册事件观察者，按注册顺序同步回调。
func (d *Detector) Subscribe(fn func(domain.GameEvent)) {
	if fn != nil {
		d.subscribers = append(d.subscribers, fn)
	}
}

// Register 登记一张卡上的全部触发器，返回触发器 id。
func (d *Detector) Register(owner domain.PlayerID, source domain.CardID, defs []domain.TriggerDef) []string {
	ids := make([]string, 0, len(defs))
	for _, def := range defs {
		t := Trigger{ID: uuid.NewString(), Owner: owner, Source: source, Def: def}
		d.triggers = append(d.triggers, t)
		ids = append(ids, t.ID)
	}
	return ids
}

// Unregister 移除某张卡登记的全部触发器。
func (d *Detector) Unregister(source domain.CardID) int {
	kept := d.triggers[:0]
	removed := 0
	for _, t := range d.triggers {
		if t.Source == source {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	clear(d.triggers[len(kept):])
	d.triggers = kept
	return removed
}

func (d *Detector) Triggers() []Trigger {
	return append([]Trigger(nil), d.triggers...)
}

// Matches 事件类型、控制方关系、可选阶段三项同时满足。
func (t Trigger) Matches(evt domain.GameEvent) bool {
	if t.Def.On != evt.Type {
		return false
	}
	if !t.Def.Controller.Matches(t.Owner, evt.Player) {
		return false
	}
	return t.Def.Phase == "" || t.Def.Phase == evt.Phase
}

// NewEvent 生成带 id 和时间戳的事件。
func (d *Detector) NewEvent(typ domain.EventType, player domain.PlayerID, turn int, phase domain.Phase, payload map[string]any) domain.GameEvent {
	if payload == nil {
		payload = map[string]any{}
	}
	return domain.GameEvent{
		ID:        uuid.NewString(),
		Type:      typ,
		Player:    player,
		Turn:      turn,
		Phase:     phase,
		Payload:   payload,
		Timestamp: d.now(),
	}
}

// Emit 记录事件、通知观察者，并返回匹配触发器生成的栈条目。
func (d *Detector) Emit(ctx context.Context, evt domain.GameEvent) []domain.StackEntry {
	if d.history != nil {
		d.history.Append(evt)
	}
	for _, fn := range d.subscribers {
		fn(evt.Clone())
	}
	var entries []domain.StackEntry
	for _, t := range d.triggers {
		if !t.Matches(evt) {
			continue
		}
		entries = append(entries, t.entry(evt))
		d.log.WithContext(ctx).Debug("trigger matched",
			zap.String("trigger", t.ID),
			zap.String("source", string(t.Source)),
			zap.String("event", string(evt.Type)))
	}
	return entries
}

// EmitAll 按顺序 Emit，条目按事件顺序拼接。
func (d *Detector) EmitAll(ctx context.Context, events []domain.GameEvent) []domain.StackEntry {
	var out []domain.StackEntry
	for _, evt := range events {
		out = append(out, d.Emit(ctx, evt)...)
	}
	return out
}

// entry 触发器产生的条目固定为 Reaction 速度，目标从事件载荷里取。
func (t Trigger) entry(evt domain.GameEvent) domain.StackEntry {
	key := t.Def.TargetKey
	if key == "" {
		key = domain.PayloadUnit
	}
	targets := make([]string, len(t.Def.Effects))
	for i, eff := range t.Def.Effects {
		if eff.NeedsTarget() {
			targets[i] = evt.PayloadString(key)
		}
	}
	return domain.StackEntry{
		ID:         uuid.NewString(),
		Owner:      t.Owner,
		Speed:      domain.SpeedReaction,
		SourceCard: t.Source,
		Effects:    append([]domain.Effect(nil), t.Def.Effects...),
		Targets:    targets,
		Trigger:    &domain.TriggerContext{TriggerID: t.ID, Event: evt.Clone()},
	}
}

// Track 处理进场/离场记录：进场的卡登记其触发器，离场的卡注销。
func (d *Detector) Track(changes []effect.Change) {
	for _, c := range changes {
		switch c.Kind {
		case effect.ChangeCardEnteredPlay:
			card, ok := d.catalog.Card(c.Card)
			if ok && card.Play != nil && len(card.Play.Triggers) > 0 {
				d.Register(c.Player, c.Card, card.Play.Triggers)
			}
		case effect.ChangeCardLeftPlay:
			d.Unregister(c.Card)
		}
	}
}

// EventsFromChanges 把状态变化记录翻译成事件。
func (d *Detector) EventsFromChanges(changes []effect.Change, turn int, phase domain.Phase) []domain.GameEvent {
	out := make([]domain.GameEvent, 0, len(changes))
	for _, c := range changes {
		var (
			typ     domain.EventType
			payload = map[string]any{}
		)
		switch c.Kind {
		case effect.ChangeUnitHealed:
			typ = domain.EventUnitHealed
		case effect.ChangeUnitDamaged:
			typ = domain.EventUnitDamaged
		case effect.ChangeUnitDefeated:
			typ = domain.EventUnitDefeated
		case effect.ChangeUnitLeveled:
			typ = domain.EventUnitLeveled
		case effect.ChangeCardMoved:
			typ = domain.EventCardMoved
		case effect.ChangeCardEnteredPlay:
			typ = domain.EventCardEnteredPlay
		case effect.ChangeVictoryPoint:
			typ = domain.EventVictoryPoint
		case effect.ChangeGameEnded:
			typ = domain.EventGameEnded
		default:
			continue
		}
		if c.Unit != "" {
			payload[domain.PayloadUnit] = string(c.Unit)
		}
		if c.Card != "" {
			payload[domain.PayloadCard] = string(c.Card)
		}
		if c.From != "" {
			payload[domain.PayloadFrom] = string(c.From)
		}
		if c.To != "" {
			payload[domain.PayloadTo] = string(c.To)
		}
		payload[domain.PayloadAmount] = c.Amount
		out = append(out, d.NewEvent(typ, c.Player, turn, phase, payload))
	}
	return out
}
