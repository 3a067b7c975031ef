// Package effect 是效果类型注册表：每种效果一组 校验 / 找目标 / 执行。
// 新效果只需 Register，分发逻辑不变。
package effect

import (
	"context"
	"fmt"
	"sort"

	"Skirmish/internal/rules/domain"
)

// Context 是一次效果调用的上下文。Target 是单位 id 或卡牌 id，视效果而定。
type Context struct {
	Ctx    context.Context
	Player domain.PlayerID
	Source domain.CardID
	Caster domain.UnitID
	Target string
	Effect domain.Effect
}

func (c Context) context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

type ChangeKind string

const (
	ChangeUnitHealed      ChangeKind = "unitHealed"
	ChangeUnitDamaged     ChangeKind = "unitDamaged"
	ChangeUnitDefeated    ChangeKind = "unitDefeated"
	ChangeUnitLeveled     ChangeKind = "unitLeveled"
	ChangeCardMoved       ChangeKind = "cardMoved"
	ChangeCardEnteredPlay ChangeKind = "cardEnteredPlay"
	ChangeCardLeftPlay    ChangeKind = "cardLeftPlay"
	ChangeVictoryPoint    ChangeKind = "victoryPoint"
	ChangeGameEnded       ChangeKind = "gameEnded"
)

// Change 是一条离散的状态变化记录，触发器据此生成事件。
type Change struct {
	Kind   ChangeKind
	Player domain.PlayerID
	Unit   domain.UnitID
	Card   domain.CardID
	Amount int
	From   domain.Zone
	To     domain.Zone
}

type Result struct {
	Success bool
	Message string
	Changes []Change
}

func failed(format string, args ...any) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, args...)}
}

// Handler 是一种效果的三件套。snap 只读，修改必须经过 store。
type Handler interface {
	Validate(ec Context, snap *domain.GameState) error
	FindTargets(ec Context, snap *domain.GameState) []string
	Execute(ec Context, snap *domain.GameState) Result
}

type Registry struct {
	handlers map[domain.EffectKind]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[domain.EffectKind]Handler)}
}

// Register 同一种效果只能注册一次。
func (r *Registry) Register(kind domain.EffectKind, h Handler) error {
	if kind == "" || h == nil {
		return fmt.Errorf("register effect: empty kind or nil handler")
	}
	if _, exists := r.handlers[kind]; exists {
		return domain.Illegal(domain.ReasonDuplicateRegister).WithData("effect", kind)
	}
	r.handlers[kind] = h
	return nil
}

func (r *Registry) Handler(kind domain.EffectKind) (Handler, bool) {
	h, ok := r.handlers[kind]
	return h, ok
}

// Kinds 返回已注册的效果类型，按名字排序。
func (r *Registry) Kinds() []domain.EffectKind {
	out := make([]domain.EffectKind, 0, len(r.handlers))
	for k := range r.handlers {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Registry) lookup(ec Context) (Handler, error) {
	kind := ec.Effect.Kind()
	h, ok := r.handlers[kind]
	if !ok {
		return nil, domain.ErrUnknownEffect.WithReason(domain.ReasonUnknownEffect).WithData("effect", kind)
	}
	return h, nil
}

func (r *Registry) Validate(ec Context, snap *domain.GameState) error {
	h, err := r.lookup(ec)
	if err != nil {
		return err
	}
	return h.Validate(ec, snap)
}

func (r *Registry) FindTargets(ec Context, snap *domain.GameState) []string {
	h, err := r.lookup(ec)
	if err != nil {
		return nil
	}
	return h.FindTargets(ec, snap)
}

// Execute 执行前再校验一次：结算时状态可能已被栈上更晚的条目改变。
func (r *Registry) Execute(ec Context, snap *domain.GameState) Result {
	h, err := r.lookup(ec)
	if err != nil {
		return failed("%s", err.Error())
	}
	if err := h.Validate(ec, snap); err != nil {
		return failed("%s", err.Error())
	}
	return h.Execute(ec, snap)
}
