package app

import (
	"context"
	"fmt"

	"Skirmish/internal/rules/domain"
)

func (e *Engine) moveUnit(ctx context.Context, a Action) (Result, error) {
	if err := e.mainAction(); err != nil {
		return Result{}, err
	}
	u, err := e.ownUnit(a.Player, a.Params.Unit)
	if err != nil {
		return Result{}, err
	}
	from := u.Position
	cost, err := e.board.Move(ctx, u.ID, a.Params.Position)
	if err != nil {
		return Result{}, err
	}
	e.fire(ctx, []domain.GameEvent{e.event(domain.EventUnitMoved, a.Player, map[string]any{
		domain.PayloadUnit:   string(u.ID),
		domain.PayloadFrom:   from.Key(),
		domain.PayloadTo:     a.Params.Position.Key(),
		domain.PayloadAmount: cost,
	})})
	res := accepted(fmt.Sprintf("%s moved to %s", u.ID, a.Params.Position.Key()))
	res.UnitID = u.ID
	return res, nil
}

// attackUnit 命中、伤害、击败和胜利点都在棋盘组件里完成，这里只负责把结果翻译成事件。
func (e *Engine) attackUnit(ctx context.Context, a Action) (Result, error) {
	if err := e.mainAction(); err != nil {
		return Result{}, err
	}
	if _, err := e.ownUnit(a.Player, a.Params.Unit); err != nil {
		return Result{}, err
	}
	ar, err := e.board.Attack(ctx, a.Params.Unit, a.Params.Target)
	if err != nil {
		return Result{}, err
	}
	events := []domain.GameEvent{e.event(domain.EventAttackDeclared, a.Player, map[string]any{
		domain.PayloadUnit:   string(ar.Attacker),
		domain.PayloadTarget: string(ar.Target),
	})}
	msg := "missed"
	if ar.Hit {
		msg = fmt.Sprintf("hit for %d", ar.Damage)
		if ar.Critical {
			msg = fmt.Sprintf("critical hit for %d", ar.Damage)
		}
		foe := e.store.Opponent(a.Player)
		events = append(events, e.event(domain.EventUnitDamaged, foe, map[string]any{
			domain.PayloadUnit:   string(ar.Target),
			domain.PayloadAmount: ar.Damage,
		}))
		if d := ar.Defeat; d != nil {
			msg += ", target defeated"
			events = append(events,
				e.event(domain.EventUnitDefeated, foe, map[string]any{
					domain.PayloadUnit: string(d.Unit.ID),
					domain.PayloadCard: string(d.Unit.SummonCard),
				}),
				e.event(domain.EventVictoryPoint, d.AwardedTo, map[string]any{domain.PayloadAmount: d.VictoryPoints}),
			)
			if d.GameEnded {
				msg += ", game over"
				events = append(events, e.event(domain.EventGameEnded, d.Winner, nil))
			}
		}
	}
	e.fire(ctx, events)
	res := accepted(msg)
	res.UnitID = ar.Attacker
	res.Attack = &ar
	return res, nil
}
