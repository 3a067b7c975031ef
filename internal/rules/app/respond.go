package app

import (
	"context"

	"Skirmish/internal/rules/domain"
	"Skirmish/internal/rules/effect"
	"Skirmish/internal/rules/stack"
)

// HasLegalResponse 手牌里是否有一张此刻能压栈的卡：速度锁允许、需求满足、
// 需要目标的效果都至少有一个候选。
func (e *Engine) HasLegalResponse(p domain.PlayerID) bool {
	if e.store.Ended() {
		return false
	}
	z, ok := e.store.Zone(p)
	if !ok {
		return false
	}
	snap := e.store.Snapshot()
	for _, id := range z.Hand {
		card, ok := e.catalog.Card(id)
		if !ok || !card.Kind.Playable() || card.Play == nil {
			continue
		}
		if stack.CanAdd(&snap, card.Play.Speed) != nil {
			continue
		}
		if e.validator.Check(p, card.Play.Requirements, "") != nil {
			continue
		}
		if e.targetable(p, card, &snap) {
			return true
		}
	}
	return false
}

func (e *Engine) targetable(p domain.PlayerID, card domain.Card, snap *domain.GameState) bool {
	for _, eff := range card.Play.Effects {
		if !eff.NeedsTarget() {
			continue
		}
		ec := effect.Context{Ctx: context.Background(), Player: p, Source: card.ID, Effect: eff}
		if len(e.registry.FindTargets(ec, snap)) == 0 {
			return false
		}
	}
	return true
}

var _ stack.ResponseChecker = (*Engine)(nil)
