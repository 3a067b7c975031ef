// Package stack 是后进先出的结算栈，负责速度锁、响应窗口和逐条结算。
package stack

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Skirmish/internal/rules/domain"
	"Skirmish/internal/rules/effect"
	"Skirmish/internal/rules/store"
	"Skirmish/internal/rules/trigger"
	"Skirmish/modules/kit/logx"
)

// ResponseChecker 判断某玩家此刻是否有合法响应。
type ResponseChecker interface {
	HasLegalResponse(p domain.PlayerID) bool
}

type Status string

const (
	StatusEmpty    Status = "empty"
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
	StatusFailed   Status = "failed"
	StatusHalted   Status = "halted"
)

// Outcome 汇总一次结算调用的结果。
type Outcome struct {
	Status   Status
	Resolved []domain.StackEntry
	Results  []effect.Result
	Events   []domain.GameEvent
	Message  string
	Err      error
}

func (o *Outcome) merge(next Outcome) {
	o.Status = next.Status
	o.Resolved = append(o.Resolved, next.Resolved...)
	o.Results = append(o.Results, next.Results...)
	o.Events = append(o.Events, next.Events...)
	o.Message = next.Message
	o.Err = next.Err
}

type Resolver struct {
	store     *store.Store
	registry  *effect.Registry
	detector  *trigger.Detector
	responses ResponseChecker
	maxIter   int
	log       logx.Logger
}

func NewResolver(st *store.Store, registry *effect.Registry, detector *trigger.Detector, maxIter int, log logx.Logger) *Resolver {
	if maxIter <= 0 {
		maxIter = 256
	}
	return &Resolver{store: st, registry: registry, detector: detector, maxIter: maxIter, log: logx.OrNop(log)}
}

// SetResponseChecker 由引擎在构造完成后注入，nil 表示没有人能响应。
func (r *Resolver) SetResponseChecker(c ResponseChecker) {
	r.responses = c
}

// Add 检查速度锁后压栈，优先权交给非行动方，进入等待响应。
func (r *Resolver) Add(ctx context.Context, e domain.StackEntry) (domain.StackEntry, error) {
	if r.store.Ended() {
		return e, domain.Illegal(domain.ReasonGameEnded)
	}
	snap := r.store.Snapshot()
	if err := CanAdd(&snap, e.Speed); err != nil {
		return e, err
	}
	return r.push(ctx, e), nil
}

// Enqueue 压入触发器产生的条目，不受速度锁限制。
func (r *Resolver) Enqueue(ctx context.Context, entries []domain.StackEntry) {
	if r.store.Ended() {
		return
	}
	for _, e := range entries {
		r.push(ctx, e)
	}
}

func (r *Resolver) push(ctx context.Context, e domain.StackEntry) domain.StackEntry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	r.store.PushEntry(e)
	w := OpenWindow(r.store.Opponent(e.Owner), e.ID)
	r.store.SetWindow(&w)
	r.log.WithContext(ctx).Debug("stack push",
		zap.String("entry", e.ID),
		zap.String("owner", string(e.Owner)),
		zap.String("speed", e.Speed.String()),
		zap.String("source", string(e.SourceCard)),
		zap.Int("depth", r.store.StackLen()))
	return e
}

// Pass 推进响应窗口；全部让过后关闭窗口并继续结算。
func (r *Resolver) Pass(ctx context.Context, p domain.PlayerID) (Outcome, error) {
	w, ok := r.store.Window()
	if !ok {
		return Outcome{}, domain.Illegal(domain.ReasonNoWindow)
	}
	next, resume, err := Advance(w, r.store.Players(), p)
	if err != nil {
		return Outcome{}, err
	}
	if !resume {
		r.store.SetWindow(&next)
		return Outcome{Status: StatusPending, Message: fmt.Sprintf("priority passed to %s", next.Holder)}, nil
	}
	r.store.SetWindow(nil)
	return r.Resolve(ctx), nil
}

// Resolve 连续结算直到栈空、打开新窗口、失败或触发迭代上限。
// 触发上限时清空结算栈，剩余条目的来源卡进弃牌堆，并记系统错误。
func (r *Resolver) Resolve(ctx context.Context) Outcome {
	var out Outcome
	for i := 0; i < r.maxIter; i++ {
		step := r.ResolveNext(ctx)
		out.merge(step)
		if step.Status != StatusResolved || r.store.StackLen() == 0 {
			return out
		}
		if _, waiting := r.store.Window(); waiting {
			out.Status = StatusPending
			return out
		}
	}
	dropped := r.clear(ctx)
	err := domain.ErrResolutionLimit.
		WithData("limit", r.maxIter).
		WithData("dropped", len(dropped)).
		WithCause(fmt.Errorf("stack still holds %d entries after %d resolutions", len(dropped), r.maxIter))
	logx.ReportSysErrorWithLoggerContext(ctx, r.log, logx.NewSysLog("stack.resolve", err))
	out.Status = StatusHalted
	out.Message = "resolution limit reached, stack cleared"
	out.Err = err
	return out
}

// ResolveNext 结算栈顶一条。等待响应时不做任何修改，只报告等待状态。
func (r *Resolver) ResolveNext(ctx context.Context) Outcome {
	if w, waiting := r.store.Window(); waiting {
		return Outcome{Status: StatusPending, Message: fmt.Sprintf("awaiting response from %s", w.Holder)}
	}
	entry, ok := r.store.PopEntry()
	if !ok {
		return Outcome{Status: StatusEmpty}
	}
	out := Outcome{Status: StatusResolved, Resolved: []domain.StackEntry{entry}}
	var triggered []domain.StackEntry
	for i, eff := range entry.Effects {
		snap := r.store.Snapshot()
		ec := effect.Context{
			Ctx:    ctx,
			Player: entry.Owner,
			Source: entry.SourceCard,
			Caster: entry.Caster,
			Target: entry.TargetFor(i),
			Effect: eff,
		}
		res := r.registry.Execute(ec, &snap)
		out.Results = append(out.Results, res)
		if !res.Success {
			out.Status = StatusFailed
			out.Message = res.Message
			r.settle(ctx, entry, false)
			r.log.WithContext(ctx).Info("stack entry failed",
				zap.String("entry", entry.ID),
				zap.Int("effect_index", i),
				zap.String("effect", string(eff.Kind())),
				zap.String("message", res.Message),
				zap.Int("triggered", len(triggered)))
			// 前面已生效的效果不回滚，它们引发的触发照常入栈
			r.pushEntries(triggered)
			r.reopen()
			return out
		}
		r.detector.Track(res.Changes)
		events := r.detector.EventsFromChanges(res.Changes, snap.Turn, snap.Phase)
		out.Events = append(out.Events, events...)
		triggered = append(triggered, r.detector.EmitAll(ctx, events)...)
		if r.store.Ended() {
			break
		}
	}
	r.settle(ctx, entry, true)
	r.log.WithContext(ctx).Debug("stack entry resolved",
		zap.String("entry", entry.ID),
		zap.Int("effects", len(entry.Effects)),
		zap.Int("triggered", len(triggered)))

	if r.store.Ended() {
		r.clear(ctx)
		out.Message = "game ended"
		return out
	}
	r.pushEntries(triggered)
	r.offerResponse()
	return out
}

func (r *Resolver) pushEntries(entries []domain.StackEntry) {
	for _, t := range entries {
		r.store.PushEntry(t)
	}
}

// clear 清空结算栈，被丢弃条目的来源卡按结算失败处理。
func (r *Resolver) clear(ctx context.Context) []domain.StackEntry {
	dropped := r.store.ClearStack()
	for i := len(dropped) - 1; i >= 0; i-- {
		r.settle(ctx, dropped[i], false)
	}
	return dropped
}

// offerResponse 栈非空时重新评估：栈顶控制者的对手优先，其次控制者本人；
// 都没有合法响应则不开窗口，由 Resolve 继续结算。
func (r *Resolver) offerResponse() {
	top, ok := r.store.Top()
	if !ok || r.responses == nil {
		return
	}
	for _, cand := range []domain.PlayerID{r.store.Opponent(top.Owner), top.Owner} {
		if cand != "" && r.responses.HasLegalResponse(cand) {
			w := OpenWindow(cand, top.ID)
			r.store.SetWindow(&w)
			return
		}
	}
}

// reopen 失败后栈里还有条目时给对手一个窗口，让双方可以让过以继续结算。
func (r *Resolver) reopen() {
	top, ok := r.store.Top()
	if !ok {
		return
	}
	w := OpenWindow(r.store.Opponent(top.Owner), top.ID)
	r.store.SetWindow(&w)
}

// settle 把来源卡牌放到结算后的去处；已被效果移动过（例如进场）的卡不再处理。
func (r *Resolver) settle(ctx context.Context, e domain.StackEntry, success bool) {
	if e.Trigger != nil || e.SourceCard == "" {
		return
	}
	z, ok := r.store.Zone(e.Owner)
	if !ok {
		return
	}
	if _, placed := z.Locate(e.SourceCard); placed {
		return
	}
	dest := e.Destination
	if !success || !dest.CardZone() {
		dest = domain.ZoneDiscard
	}
	if err := r.store.PatchZone(e.Owner, func(z *domain.PlayerZone) { z.Put(dest, e.SourceCard) }); err != nil {
		logx.ReportSysErrorWithLoggerContext(ctx, r.log, logx.NewSysLog("stack.settle", err))
	}
}
