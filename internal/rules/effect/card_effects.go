package effect

import (
	"Skirmish/internal/rules/domain"
)

// locateCard 在所有玩家区域里找卡牌。
func locateCard(snap *domain.GameState, id domain.CardID) (domain.PlayerID, domain.Zone, bool) {
	for _, p := range snap.Players {
		z, ok := snap.Zones[p]
		if !ok {
			continue
		}
		if zone, found := z.Locate(id); found {
			return p, zone, true
		}
	}
	return "", "", false
}

// zoneChangeHandler 只移动非单位卡牌，区域归属不变。
type zoneChangeHandler struct{ base }

func (h zoneChangeHandler) Validate(ec Context, snap *domain.GameState) error {
	p, ok := ec.Effect.Params.(domain.ZoneChangeParams)
	if !ok {
		return domain.Illegal(domain.ReasonInvalidParams).WithData("effect", ec.Effect.Kind())
	}
	if ec.Target == "" {
		return domain.Illegal(domain.ReasonTargetInvalid)
	}
	_, from, found := locateCard(snap, domain.CardID(ec.Target))
	if !found {
		return domain.Missing(domain.ReasonCardNotFound, "card", ec.Target)
	}
	if from == p.To {
		return domain.Illegal(domain.ReasonTargetInvalid).WithData("zone", from)
	}
	return h.checkRestrictions(ec)
}

func (h zoneChangeHandler) FindTargets(ec Context, snap *domain.GameState) []string {
	p, _ := ec.Effect.Params.(domain.ZoneChangeParams)
	var out []string
	for _, id := range h.candidates(ec) {
		if _, from, ok := locateCard(snap, domain.CardID(id)); ok && from != p.To {
			out = append(out, id)
		}
	}
	return out
}

func (h zoneChangeHandler) Execute(ec Context, snap *domain.GameState) Result {
	p := ec.Effect.Params.(domain.ZoneChangeParams)
	card := domain.CardID(ec.Target)
	owner, from, _ := locateCard(snap, card)
	if err := h.d.Store.PatchZone(owner, func(z *domain.PlayerZone) { z.Move(card, from, p.To) }); err != nil {
		return failed("zoneChange: %v", err)
	}
	changes := []Change{{Kind: ChangeCardMoved, Player: owner, Card: card, From: from, To: p.To}}
	if from == domain.ZoneInPlay {
		changes = append(changes, Change{Kind: ChangeCardLeftPlay, Player: owner, Card: card, From: from, To: p.To})
	}
	return Result{Success: true, Message: "card moved", Changes: changes}
}

// enterPlayHandler 把来源卡牌（建筑、任务）放进打出者的场上区域。
type enterPlayHandler struct{ base }

func (h enterPlayHandler) Validate(ec Context, snap *domain.GameState) error {
	if ec.Source == "" {
		return domain.Illegal(domain.ReasonInvalidParams).WithData("effect", ec.Effect.Kind())
	}
	if _, ok := snap.Zones[ec.Player]; !ok {
		return domain.Missing(domain.ReasonPlayerNotFound, "player", ec.Player)
	}
	if _, zone, found := locateCard(snap, ec.Source); found && zone == domain.ZoneInPlay {
		return domain.Illegal(domain.ReasonTargetInvalid).WithData("card", ec.Source)
	}
	return nil
}

func (h enterPlayHandler) FindTargets(ec Context, _ *domain.GameState) []string {
	return []string{string(ec.Source)}
}

func (h enterPlayHandler) Execute(ec Context, snap *domain.GameState) Result {
	owner, from, found := locateCard(snap, ec.Source)
	err := h.d.Store.PatchZone(ec.Player, func(z *domain.PlayerZone) {
		if found && owner == ec.Player {
			z.Take(from, ec.Source)
		}
		z.Put(domain.ZoneInPlay, ec.Source)
	})
	if err != nil {
		return failed("enterPlay: %v", err)
	}
	return Result{
		Success: true,
		Message: "entered play",
		Changes: []Change{{Kind: ChangeCardEnteredPlay, Player: ec.Player, Card: ec.Source, To: domain.ZoneInPlay}},
	}
}
