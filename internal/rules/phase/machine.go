// Package phase 是回合/阶段状态机：SETUP→DRAW→LEVEL→ACTION→END→下一名玩家的 DRAW。
package phase

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"Skirmish/internal/rules/domain"
	"Skirmish/internal/rules/store"
	"Skirmish/internal/rules/synthesis"
	"Skirmish/internal/rules/trigger"
	"Skirmish/modules/kit/logx"
)

// Transition 描述一次结束阶段的结果以及进入新阶段时产生的副作用。
type Transition struct {
	From   domain.Phase
	To     domain.Phase
	Player domain.PlayerID
	Turn   int

	Drawn      []domain.CardID
	Reshuffled bool
	Recharged  []domain.CardID
	Leveled    []domain.UnitID

	Events    []domain.GameEvent
	Triggered []domain.StackEntry
}

type Machine struct {
	store     *store.Store
	synth     *synthesis.Synthesizer
	detector  *trigger.Detector
	rng       domain.Rand
	handLimit int
	maxLevel  int
	log       logx.Logger
}

func NewMachine(st *store.Store, synth *synthesis.Synthesizer, detector *trigger.Detector, rng domain.Rand, handLimit int, log logx.Logger) *Machine {
	if handLimit <= 0 {
		handLimit = 6
	}
	maxLevel := st.Options().MaxLevel
	if maxLevel <= 0 {
		maxLevel = 20
	}
	return &Machine{
		store:     st,
		synth:     synth,
		detector:  detector,
		rng:       rng,
		handLimit: handLimit,
		maxLevel:  maxLevel,
		log:       logx.OrNop(log),
	}
}

// Next 返回阶段推进的目标；wrap 为 true 表示轮到下一名玩家。
func Next(p domain.Phase) (next domain.Phase, wrap bool) {
	switch p {
	case domain.PhaseSetup:
		return domain.PhaseDraw, false
	case domain.PhaseDraw:
		return domain.PhaseLevel, false
	case domain.PhaseLevel:
		return domain.PhaseAction, false
	case domain.PhaseAction:
		return domain.PhaseEnd, false
	default:
		return domain.PhaseDraw, true
	}
}

// CheckEnd 只做校验，不修改状态。
func (m *Machine) CheckEnd(p domain.PlayerID) error {
	switch {
	case m.store.Ended():
		return domain.Illegal(domain.ReasonGameEnded)
	case !m.store.HasPlayer(p):
		return domain.Missing(domain.ReasonPlayerNotFound, "player", p)
	case p != m.store.ActivePlayer():
		return domain.Illegal(domain.ReasonNotActivePlayer).WithData("active", m.store.ActivePlayer())
	}
	if _, ok := m.store.Window(); ok {
		return domain.Illegal(domain.ReasonWindowOpen)
	}
	if m.store.StackLen() > 0 {
		return domain.Illegal(domain.ReasonStackNotEmpty).WithData("depth", m.store.StackLen())
	}
	return nil
}

// EndPhase 推进到下一阶段并执行进入阶段的效果。
// 回到第一名玩家时回合数加一。
func (m *Machine) EndPhase(ctx context.Context, p domain.PlayerID) (Transition, error) {
	if err := m.CheckEnd(p); err != nil {
		return Transition{}, err
	}
	from := m.store.Phase()
	to, wrap := Next(from)
	active, turn := m.store.ActivePlayer(), m.store.Turn()
	if wrap {
		active = m.store.Opponent(active)
		if players := m.store.Players(); len(players) > 0 && active == players[0] {
			turn++
		}
	}
	m.store.Apply(store.Patch{Phase: &to, ActivePlayer: &active, Turn: &turn})

	tr := Transition{From: from, To: to, Player: active, Turn: turn}
	tr.Events = append(tr.Events, m.detector.NewEvent(domain.EventPhaseEntered, active, turn, to,
		map[string]any{domain.PayloadFrom: string(from), domain.PayloadTo: string(to)}))

	switch to {
	case domain.PhaseDraw:
		m.enterDraw(ctx, &tr)
	case domain.PhaseLevel:
		m.enterLevel(ctx, &tr)
	case domain.PhaseEnd:
		m.enterEnd(ctx, &tr)
	}
	tr.Triggered = m.detector.EmitAll(ctx, tr.Events)

	m.log.WithContext(ctx).Info("phase entered",
		zap.String("player", string(active)),
		zap.Int("turn", turn),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Int("drawn", len(tr.Drawn)),
		zap.Int("leveled", len(tr.Leveled)),
		zap.Int("recharged", len(tr.Recharged)),
		zap.Int("triggered", len(tr.Triggered)))
	return tr, nil
}

// enterDraw 第一名玩家的第一回合不抽牌；牌库空时先把充能堆洗回牌库。
func (m *Machine) enterDraw(ctx context.Context, tr *Transition) {
	if players := m.store.Players(); tr.Turn == 1 && len(players) > 0 && tr.Player == players[0] {
		return
	}
	var drawn domain.CardID
	err := m.store.PatchZone(tr.Player, func(z *domain.PlayerZone) {
		if len(z.MainDeck) == 0 && len(z.Recharge) > 0 {
			z.MainDeck, z.Recharge = z.Recharge, nil
			if m.rng != nil {
				m.rng.Shuffle(len(z.MainDeck), func(i, j int) {
					z.MainDeck[i], z.MainDeck[j] = z.MainDeck[j], z.MainDeck[i]
				})
			}
			tr.Reshuffled = true
		}
		if len(z.MainDeck) == 0 {
			return
		}
		drawn = z.MainDeck[0]
		z.MainDeck = slices.Delete(z.MainDeck, 0, 1)
		z.Hand = append(z.Hand, drawn)
	})
	if err != nil {
		tr.Reshuffled = false
		logx.ReportSysErrorWithLoggerContext(ctx, m.log, logx.NewSysLog("phase.draw", err),
			zap.String("player", string(tr.Player)))
		return
	}
	if drawn == "" {
		return
	}
	tr.Drawn = append(tr.Drawn, drawn)
	tr.Events = append(tr.Events, m.detector.NewEvent(domain.EventCardDrawn, tr.Player, tr.Turn, tr.To,
		map[string]any{domain.PayloadCard: string(drawn), domain.PayloadFrom: string(domain.ZoneMainDeck), domain.PayloadTo: string(domain.ZoneHand)}))
}

// enterLevel 行动方每个单位升一级（封顶）并重新合成。
func (m *Machine) enterLevel(ctx context.Context, tr *Transition) {
	for _, id := range m.store.UnitIDsOf(tr.Player) {
		u, ok := m.store.Unit(id)
		if !ok || u.Level >= m.maxLevel {
			continue
		}
		next := u.Clone()
		next.Level++
		next, err := m.synth.Resynthesize(next)
		if err != nil {
			m.log.WithContext(ctx).Warn("level up skipped", zap.String("unit", string(id)), zap.Error(err))
			continue
		}
		if _, err := m.store.UpdateUnit(id, func(cur *domain.FieldedUnit) {
			cur.Level = next.Level
			cur.Stats = next.Stats
			cur.MaxHP = next.MaxHP
			cur.HP = next.HP
			cur.Movement = next.Movement
		}); err != nil {
			continue
		}
		tr.Leveled = append(tr.Leveled, id)
		tr.Events = append(tr.Events, m.detector.NewEvent(domain.EventUnitLeveled, tr.Player, tr.Turn, tr.To,
			map[string]any{domain.PayloadUnit: string(id), domain.PayloadAmount: 1}))
	}
}

// enterEnd 手牌超上限的部分从末尾移到充能堆，重置单位回合计数和召唤标记。
func (m *Machine) enterEnd(ctx context.Context, tr *Transition) {
	err := m.store.PatchZone(tr.Player, func(z *domain.PlayerZone) {
		if over := len(z.Hand) - m.handLimit; over > 0 {
			cut := z.Hand[m.handLimit:]
			tr.Recharged = append(tr.Recharged, cut...)
			z.Recharge = append(z.Recharge, cut...)
			z.Hand = slices.Clone(z.Hand[:m.handLimit])
		}
	})
	if err != nil {
		tr.Recharged = nil
		logx.ReportSysErrorWithLoggerContext(ctx, m.log, logx.NewSysLog("phase.end", err),
			zap.String("player", string(tr.Player)))
	}
	for _, id := range tr.Recharged {
		tr.Events = append(tr.Events, m.detector.NewEvent(domain.EventCardMoved, tr.Player, tr.Turn, tr.To,
			map[string]any{domain.PayloadCard: string(id), domain.PayloadFrom: string(domain.ZoneHand), domain.PayloadTo: string(domain.ZoneRecharge)}))
	}
	m.store.ResetTurnCounters(tr.Player)
	used := false
	m.store.Apply(store.Patch{SummonUsed: &used})
}
