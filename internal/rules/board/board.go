// Package board 负责领地、占位、移动和战斗结算。
package board

import (
	"context"

	"go.uber.org/zap"

	"Skirmish/internal/rules/domain"
	"Skirmish/internal/rules/store"
	"Skirmish/modules/kit/logx"
)

type Resolver struct {
	store   *store.Store
	catalog domain.Catalog
	rng     domain.Rand
	log     logx.Logger
}

func NewResolver(st *store.Store, catalog domain.Catalog, rng domain.Rand, log logx.Logger) *Resolver {
	return &Resolver{store: st, catalog: catalog, rng: rng, log: logx.OrNop(log)}
}

// ValidateSummon：格子存在、属于行动方领地、单位层为空。
func (r *Resolver) ValidateSummon(p domain.PlayerID, at domain.Coord) error {
	pos, ok := r.store.Position(at)
	if !ok {
		return domain.Illegal(domain.ReasonPositionInvalid).WithData("position", at.Key())
	}
	side := r.sideOf(p)
	if side == domain.SideNeutral || pos.Territory != side {
		return domain.Illegal(domain.ReasonNotOwnTerritory).WithData("position", at.Key())
	}
	if pos.Unit != "" {
		return domain.Illegal(domain.ReasonPositionOccupied).WithData("position", at.Key())
	}
	return nil
}

func (r *Resolver) sideOf(p domain.PlayerID) domain.Side {
	players := r.store.Players()
	switch {
	case len(players) > 0 && players[0] == p:
		return domain.SideFirst
	case len(players) > 1 && players[1] == p:
		return domain.SideSecond
	}
	return domain.SideNeutral
}

// MoveCost 是曼哈顿距离乘以目标格的移动消耗。
func MoveCost(from domain.Coord, to domain.BoardPosition) int {
	return domain.Distance(from, to.Coord) * to.StepCost()
}

// ValidateMove 返回本次移动将消耗的移动力。
func (r *Resolver) ValidateMove(id domain.UnitID, to domain.Coord) (int, error) {
	u, ok := r.store.Unit(id)
	if !ok {
		return 0, domain.Missing(domain.ReasonUnitNotFound, "unit", id)
	}
	pos, ok := r.store.Position(to)
	if !ok {
		return 0, domain.Illegal(domain.ReasonPositionInvalid).WithData("position", to.Key())
	}
	if !pos.Walkable {
		return 0, domain.Illegal(domain.ReasonNotWalkable).WithData("position", to.Key())
	}
	if pos.BlockingStructure != "" {
		return 0, domain.Illegal(domain.ReasonBlocked).WithData("position", to.Key())
	}
	if pos.Unit != "" {
		return 0, domain.Illegal(domain.ReasonPositionOccupied).WithData("position", to.Key())
	}
	cost := MoveCost(u.Position, pos)
	if cost > u.RemainingMovement() {
		return 0, domain.Illegal(domain.ReasonNoMovement).
			WithData("cost", cost).WithData("remaining", u.RemainingMovement())
	}
	return cost, nil
}

// Move 先校验再修改。
func (r *Resolver) Move(ctx context.Context, id domain.UnitID, to domain.Coord) (int, error) {
	cost, err := r.ValidateMove(id, to)
	if err != nil {
		return 0, err
	}
	if err := r.store.MoveUnit(id, to); err != nil {
		return 0, err
	}
	if _, err := r.store.UpdateUnit(id, func(u *domain.FieldedUnit) { u.MovementUsed += cost }); err != nil {
		return 0, err
	}
	r.log.WithContext(ctx).Debug("unit moved",
		zap.String("unit", string(id)), zap.String("to", to.Key()), zap.Int("cost", cost))
	return cost, nil
}

// weaponOf 返回单位的武器，没有则为 nil。
func (r *Resolver) weaponOf(u domain.FieldedUnit) *domain.EquipmentCard {
	id := u.Equipment[domain.SlotWeapon]
	if id == "" {
		return nil
	}
	c, ok := r.catalog.Card(id)
	if !ok {
		return nil
	}
	return c.Equipment
}

// Range 是武器射程，无武器或射程未设置时为 1。
func (r *Resolver) Range(u domain.FieldedUnit) int {
	if w := r.weaponOf(u); w != nil && w.Range > 0 {
		return w.Range
	}
	return 1
}
