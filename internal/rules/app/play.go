package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"Skirmish/internal/rules/domain"
	"Skirmish/internal/rules/effect"
	"Skirmish/internal/rules/stack"
	"Skirmish/internal/rules/store"
)

// handCard 找到手牌中的卡及其定义。
func (e *Engine) handCard(p domain.PlayerID, id domain.CardID) (domain.Card, error) {
	z, ok := e.store.Zone(p)
	if !ok {
		return domain.Card{}, domain.Missing(domain.ReasonPlayerNotFound, "player", p)
	}
	if where, found := z.Locate(id); !found || where != domain.ZoneHand {
		return domain.Card{}, domain.Illegal(domain.ReasonCardNotInHand).WithData("card", id)
	}
	card, ok := e.catalog.Card(id)
	if !ok {
		return domain.Card{}, domain.Missing(domain.ReasonCardNotFound, "card", id)
	}
	return card, nil
}

// mainAction 召唤、换职业、装备、移动、攻击都只能在行动阶段的空栈上进行。
func (e *Engine) mainAction() error {
	if e.store.Phase() != domain.PhaseAction {
		return domain.Illegal(domain.ReasonWrongPhase).WithData("phase", e.store.Phase())
	}
	if n := e.store.StackLen(); n > 0 {
		return domain.Illegal(domain.ReasonStackNotEmpty).WithData("depth", n)
	}
	return nil
}

func (e *Engine) ownUnit(p domain.PlayerID, id domain.UnitID) (domain.FieldedUnit, error) {
	u, ok := e.store.Unit(id)
	if !ok {
		return u, domain.Missing(domain.ReasonUnitNotFound, "unit", id)
	}
	if u.Owner != p {
		return u, domain.Illegal(domain.ReasonNotOwnUnit).WithData("unit", id)
	}
	return u, nil
}

func (e *Engine) playCard(ctx context.Context, a Action) (Result, error) {
	card, err := e.handCard(a.Player, a.Params.CardID)
	if err != nil {
		return Result{}, err
	}
	switch {
	case card.Kind == domain.KindSummon:
		return e.summon(ctx, a, card)
	case card.Kind == domain.KindRole:
		return e.changeRole(ctx, a, card)
	case card.Kind == domain.KindEquipment:
		return e.equip(ctx, a, card)
	case card.Kind.Playable() && card.Play != nil:
		return e.playEffect(ctx, a, card)
	}
	return Result{}, domain.Illegal(domain.ReasonCardNotPlayable).WithData("card", card.ID).WithData("kind", card.Kind)
}

// summon 每回合一次，落点必须是己方领地内的空格。
func (e *Engine) summon(ctx context.Context, a Action, card domain.Card) (Result, error) {
	if err := e.mainAction(); err != nil {
		return Result{}, err
	}
	if e.store.SummonUsed() {
		return Result{}, domain.Illegal(domain.ReasonSummonLimit)
	}
	at := a.Params.Position
	if err := e.board.ValidateSummon(a.Player, at); err != nil {
		return Result{}, err
	}
	unit, err := e.synth.Field(domain.UnitID(e.ids.Next("u")), a.Player, card.ID, at)
	if err != nil {
		return Result{}, err
	}

	if err := e.store.PatchZone(a.Player, func(z *domain.PlayerZone) { z.Take(domain.ZoneHand, card.ID) }); err != nil {
		return Result{}, err
	}
	if err := e.store.PutUnit(unit); err != nil {
		return Result{}, err
	}
	used := true
	e.store.Apply(store.Patch{SummonUsed: &used})
	e.log.WithContext(ctx).Info("unit summoned",
		zap.String("player", string(a.Player)),
		zap.String("unit", string(unit.ID)),
		zap.String("card", string(card.ID)),
		zap.String("position", at.Key()))

	e.fire(ctx, []domain.GameEvent{
		e.event(domain.EventCardPlayed, a.Player, map[string]any{domain.PayloadCard: string(card.ID)}),
		e.event(domain.EventUnitSummoned, a.Player, map[string]any{
			domain.PayloadUnit: string(unit.ID),
			domain.PayloadCard: string(card.ID),
			domain.PayloadTo:   at.Key(),
		}),
	})
	res := accepted("summoned " + string(unit.ID))
	res.UnitID = unit.ID
	return res, nil
}

// changeRole 换上新职业并重新合成，旧职业卡进弃牌堆；默认职业没有实体卡，直接替换。
func (e *Engine) changeRole(ctx context.Context, a Action, card domain.Card) (Result, error) {
	if err := e.mainAction(); err != nil {
		return Result{}, err
	}
	u, err := e.ownUnit(a.Player, a.Params.Unit)
	if err != nil {
		return Result{}, err
	}
	if err := e.validator.ValidateRoleChange(u, card.Role); err != nil {
		return Result{}, err
	}
	next := u.Clone()
	next.RoleCard = card.ID
	next.RoleFromDefault = false
	replaced := u.RoleCard
	if u.RoleFromDefault {
		replaced = ""
	}
	return e.refit(ctx, a, card, u, next, replaced)
}

// equip 把装备放进对应槽位，槽位原有的装备进弃牌堆。
func (e *Engine) equip(ctx context.Context, a Action, card domain.Card) (Result, error) {
	if err := e.mainAction(); err != nil {
		return Result{}, err
	}
	u, err := e.ownUnit(a.Player, a.Params.Unit)
	if err != nil {
		return Result{}, err
	}
	if card.Equipment == nil {
		return Result{}, domain.Illegal(domain.ReasonCardNotPlayable).WithData("card", card.ID)
	}
	slot := card.Equipment.Slot
	next := u.Clone()
	next.Equipment[slot] = card.ID
	return e.refit(ctx, a, card, u, next, u.Equipment[slot])
}

// refit 重新合成后一次性写回，生命按比例保留。
func (e *Engine) refit(ctx context.Context, a Action, card domain.Card, u, next domain.FieldedUnit, replaced domain.CardID) (Result, error) {
	next, err := e.synth.Resynthesize(next)
	if err != nil {
		return Result{}, err
	}
	err = e.store.PatchZone(a.Player, func(z *domain.PlayerZone) {
		z.Take(domain.ZoneHand, card.ID)
		if replaced != "" {
			z.Put(domain.ZoneDiscard, replaced)
		}
	})
	if err != nil {
		return Result{}, err
	}
	if _, err := e.store.UpdateUnit(u.ID, func(cur *domain.FieldedUnit) {
		cur.RoleCard = next.RoleCard
		cur.RoleFromDefault = next.RoleFromDefault
		cur.Equipment = next.Equipment
		cur.Stats = next.Stats
		cur.MaxHP = next.MaxHP
		cur.HP = next.HP
		cur.Movement = next.Movement
	}); err != nil {
		return Result{}, err
	}
	e.log.WithContext(ctx).Info("unit refitted",
		zap.String("unit", string(u.ID)),
		zap.String("card", string(card.ID)),
		zap.String("kind", string(card.Kind)),
		zap.Int("max_hp", next.MaxHP))
	e.fire(ctx, []domain.GameEvent{e.event(domain.EventCardPlayed, a.Player, map[string]any{
		domain.PayloadCard: string(card.ID),
		domain.PayloadUnit: string(u.ID),
	})})
	res := accepted(fmt.Sprintf("%s applied to %s", card.ID, u.ID))
	res.UnitID = u.ID
	return res, nil
}

// playEffect 打出带效果的卡：速度锁、需求、逐个效果的目标都校验通过后，
// 支付费用、离开手牌、压栈，等待对手响应。
func (e *Engine) playEffect(ctx context.Context, a Action, card domain.Card) (Result, error) {
	play := card.Play
	snap := e.store.Snapshot()
	if err := stack.CanAdd(&snap, play.Speed); err != nil {
		return Result{}, err
	}
	caster := a.Params.Caster
	if caster != "" {
		if _, err := e.ownUnit(a.Player, caster); err != nil {
			return Result{}, err
		}
	}
	if err := e.validator.Check(a.Player, play.Requirements, caster); err != nil {
		return Result{}, err
	}
	targets := make([]string, len(play.Effects))
	for i, eff := range play.Effects {
		if i < len(a.Params.Targets) {
			targets[i] = a.Params.Targets[i]
		}
		ec := effect.Context{Ctx: ctx, Player: a.Player, Source: card.ID, Caster: caster, Target: targets[i], Effect: eff}
		if err := e.registry.Validate(ec, &snap); err != nil {
			return Result{}, err
		}
	}

	paid, err := e.validator.PayCost(a.Player, domain.CostOf(play.Requirements))
	if err != nil {
		return Result{}, err
	}
	if err := e.store.PatchZone(a.Player, func(z *domain.PlayerZone) { z.Take(domain.ZoneHand, card.ID) }); err != nil {
		return Result{}, err
	}
	entry, err := e.resolver.Add(ctx, domain.StackEntry{
		Owner:       a.Player,
		Speed:       play.Speed,
		SourceCard:  card.ID,
		Caster:      caster,
		Effects:     append([]domain.Effect(nil), play.Effects...),
		Targets:     targets,
		Destination: play.Destination,
	})
	if err != nil {
		return Result{}, err
	}
	e.log.WithContext(ctx).Info("card played",
		zap.String("player", string(a.Player)),
		zap.String("card", string(card.ID)),
		zap.String("speed", play.Speed.String()),
		zap.String("entry", entry.ID),
		zap.Int("cost_paid", len(paid)))
	e.fire(ctx, []domain.GameEvent{e.event(domain.EventCardPlayed, a.Player, map[string]any{domain.PayloadCard: string(card.ID)})})
	res := accepted(fmt.Sprintf("%s added to the stack", card.ID))
	res.EntryID = entry.ID
	return res, nil
}
