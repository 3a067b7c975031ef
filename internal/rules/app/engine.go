// Package app 是规则引擎门面：接收动作、按阶段与优先权把关、调度各规则组件并记录访问日志。
package app

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"

	"go.uber.org/zap"

	"Skirmish/internal/rules/board"
	"Skirmish/internal/rules/domain"
	"Skirmish/internal/rules/effect"
	"Skirmish/internal/rules/formula"
	"Skirmish/internal/rules/phase"
	"Skirmish/internal/rules/requirement"
	"Skirmish/internal/rules/stack"
	"Skirmish/internal/rules/store"
	"Skirmish/internal/rules/synthesis"
	"Skirmish/internal/rules/trigger"
	"Skirmish/internal/shared/serverconfig"
	"Skirmish/internal/shared/transport"
	"Skirmish/internal/shared/utils"
	"Skirmish/modules/kit/errx"
	"Skirmish/modules/kit/logx"
)

// Deck 是一名玩家开局时的卡牌分布。
type Deck struct {
	Hand    []domain.CardID
	Main    []domain.CardID
	Advance []domain.CardID
}

// Setup 描述一局对局的参与者和卡组，Players[0] 先手并拥有前几行领地。
type Setup struct {
	Players []domain.PlayerID
	Decks   map[domain.PlayerID]Deck
	// OpeningHand 开局从主牌库顶抽取的张数
	OpeningHand int
	// Shuffle 为 true 时开局前洗主牌库
	Shuffle bool
	// Board 为空时按规则配置生成标准棋盘
	Board *domain.Board
}

type Options struct {
	Rules serverconfig.RulesConfig
	// Rand 为空时按 Rules.Seed 创建，Seed 为 0 时取随机种子
	Rand domain.Rand
	IDs  *utils.Snowflake
	Log  logx.Logger
}

type Engine struct {
	catalog   domain.Catalog
	store     *store.Store
	board     *board.Resolver
	synth     *synthesis.Synthesizer
	validator *requirement.Validator
	registry  *effect.Registry
	detector  *trigger.Detector
	resolver  *stack.Resolver
	machine   *phase.Machine
	history   *trigger.EventLog
	ids       *utils.Snowflake
	log       logx.Logger

	pending []domain.GameEvent
}

// New 校验卡组并搭好所有规则组件，对局从 SETUP 阶段开始。
func New(catalog domain.Catalog, setup Setup, opts Options) (*Engine, error) {
	rules := withDefaults(opts.Rules)
	if len(setup.Players) != 2 || setup.Players[0] == "" || setup.Players[1] == "" || setup.Players[0] == setup.Players[1] {
		return nil, domain.Illegal(domain.ReasonInvalidParams).WithMsg("a match needs two distinct players")
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(seedOf(rules.Seed)))
	}
	ids := opts.IDs
	if ids == nil {
		var err error
		if ids, err = utils.NewSnowflake(1); err != nil {
			return nil, err
		}
	}
	log := logx.OrNop(opts.Log)

	zones, err := buildZones(catalog, setup, rng)
	if err != nil {
		return nil, err
	}
	var b domain.Board
	if setup.Board != nil {
		b = *setup.Board
	} else {
		b = domain.NewBoard(rules.BoardWidth, rules.BoardHeight, rules.TerritoryRows)
	}
	st := store.New(domain.GameState{
		Turn:          1,
		Players:       append([]domain.PlayerID(nil), setup.Players...),
		ActivePlayer:  setup.Players[0],
		Phase:         domain.PhaseSetup,
		Board:         b,
		Zones:         zones,
		VictoryPoints: map[domain.PlayerID]int{},
	}, store.Options{MaxLevel: rules.MaxLevel, VictoryPoints: rules.VictoryPoints})

	e := &Engine{
		catalog: catalog,
		store:   st,
		history: trigger.NewEventLog(rules.EventLogSize),
		ids:     ids,
		log:     log,
	}
	e.board = board.NewResolver(st, catalog, rng, log)
	e.synth = synthesis.NewSynthesizer(catalog, rules.StartingLevel)
	e.validator = requirement.NewValidator(st, catalog)
	e.registry = effect.NewDefaultRegistry(effect.Deps{
		Store:     st,
		Board:     e.board,
		Synth:     e.synth,
		Validator: e.validator,
		Eval:      formula.NewEvaluator(log),
		Rand:      rng,
		MaxLevel:  rules.MaxLevel,
	})
	e.detector = trigger.NewDetector(catalog, log, trigger.WithEventLog(e.history))
	e.detector.Subscribe(func(evt domain.GameEvent) { e.pending = append(e.pending, evt) })
	e.resolver = stack.NewResolver(st, e.registry, e.detector, rules.StackIterLimit, log)
	e.resolver.SetResponseChecker(e)
	e.machine = phase.NewMachine(st, e.synth, e.detector, rng, rules.HandLimit, log)
	return e, nil
}

func withDefaults(r serverconfig.RulesConfig) serverconfig.RulesConfig {
	def := serverconfig.Default().Rules
	if r.BoardWidth <= 0 || r.BoardHeight <= 0 {
		r.BoardWidth, r.BoardHeight = def.BoardWidth, def.BoardHeight
	}
	if r.TerritoryRows <= 0 {
		r.TerritoryRows = def.TerritoryRows
	}
	if r.VictoryPoints <= 0 {
		r.VictoryPoints = def.VictoryPoints
	}
	if r.HandLimit <= 0 {
		r.HandLimit = def.HandLimit
	}
	if r.MaxLevel <= 0 {
		r.MaxLevel = def.MaxLevel
	}
	if r.StartingLevel <= 0 {
		r.StartingLevel = def.StartingLevel
	}
	if r.StackIterLimit <= 0 {
		r.StackIterLimit = def.StackIterLimit
	}
	if r.EventLogSize <= 0 {
		r.EventLogSize = def.EventLogSize
	}
	return r
}

func seedOf(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}

// buildZones 检查每张卡都能在卡牌库中找到且只出现一次。
func buildZones(catalog domain.Catalog, setup Setup, rng domain.Rand) (map[domain.PlayerID]*domain.PlayerZone, error) {
	seen := map[domain.CardID]domain.PlayerID{}
	zones := make(map[domain.PlayerID]*domain.PlayerZone, len(setup.Players))
	for _, p := range setup.Players {
		deck := setup.Decks[p]
		for _, pile := range [][]domain.CardID{deck.Hand, deck.Main, deck.Advance} {
			for _, id := range pile {
				if _, ok := catalog.Card(id); !ok {
					return nil, domain.Missing(domain.ReasonCardNotFound, "card", id)
				}
				if owner, dup := seen[id]; dup {
					return nil, domain.Illegal(domain.ReasonInvalidParams).WithData("card", id).WithData("owner", owner)
				}
				seen[id] = p
			}
		}
		z := &domain.PlayerZone{
			Hand:        append([]domain.CardID(nil), deck.Hand...),
			MainDeck:    append([]domain.CardID(nil), deck.Main...),
			AdvanceDeck: append([]domain.CardID(nil), deck.Advance...),
		}
		if setup.Shuffle {
			rng.Shuffle(len(z.MainDeck), func(i, j int) { z.MainDeck[i], z.MainDeck[j] = z.MainDeck[j], z.MainDeck[i] })
		}
		n := min(setup.OpeningHand, len(z.MainDeck))
		if n > 0 {
			z.Hand = append(z.Hand, z.MainDeck[:n]...)
			z.MainDeck = append([]domain.CardID(nil), z.MainDeck[n:]...)
		}
		zones[p] = z
	}
	return zones, nil
}

// State 返回当前状态的深拷贝。
func (e *Engine) State() domain.GameState { return e.store.Snapshot() }

// Events 返回本局保留的最近事件。
func (e *Engine) Events() []domain.GameEvent { return e.history.All() }

// ResolveNext 结算栈顶一条；等待响应时不做任何修改，只报告等待状态。
func (e *Engine) ResolveNext(ctx context.Context) stack.Outcome {
	return e.resolver.ResolveNext(ctx)
}

// Submit 是唯一的动作入口。被拒绝的动作不修改任何状态。
func (e *Engine) Submit(ctx context.Context, a Action) Result {
	ctx = transport.NewContextWithParent(ctx, "rules."+string(a.Type))
	transport.SetPlayer(ctx, string(a.Player))
	defer transport.WriteAccessLog(ctx, e.log)

	e.pending = nil
	res, err := e.dispatch(ctx, a)
	if err != nil {
		return e.reject(ctx, a, err)
	}
	transport.SetBizCode(ctx, transport.OK)
	res.Success = true
	res.Events = e.pending
	e.pending = nil
	e.log.WithContext(ctx).Debug("action accepted",
		zap.String("action", string(a.Type)),
		zap.String("player", string(a.Player)),
		zap.String("phase", string(e.store.Phase())),
		zap.Int("stack", e.store.StackLen()),
		zap.Int("events", len(res.Events)))
	return res
}

func (e *Engine) reject(ctx context.Context, a Action, err error) Result {
	e.pending = nil
	reason := domain.ReasonOf(err)
	transport.SetBizCode(ctx, transport.CodeFromError(err))
	transport.SetErrorReason(ctx, reason)
	if xe, ok := errx.As(err); ok && xe.IsBiz() {
		logx.ReportBizWithLoggerContext(ctx, e.log, logx.NewBizLog(string(a.Type), reason, xe.Msg()),
			zap.String("player", string(a.Player)))
	} else {
		logx.ReportSysErrorWithLoggerContext(ctx, e.log, logx.NewSysLog(string(a.Type), err))
	}
	return Result{Success: false, Message: err.Error(), Reason: reason}
}

// dispatch 先做公共把关：对局未结束、玩家存在；
// 响应窗口打开时只有优先权持有者能让过或打出响应，否则只有行动方能行动。
func (e *Engine) dispatch(ctx context.Context, a Action) (Result, error) {
	if e.store.Ended() {
		return Result{}, domain.Illegal(domain.ReasonGameEnded).WithData("winner", e.store.Winner())
	}
	if !e.store.HasPlayer(a.Player) {
		return Result{}, domain.Missing(domain.ReasonPlayerNotFound, "player", a.Player)
	}
	if w, open := e.store.Window(); open {
		if a.Player != w.Holder {
			return Result{}, domain.Illegal(domain.ReasonNotPriority).WithData("holder", w.Holder)
		}
		switch a.Type {
		case ActionPass:
			return e.pass(ctx, a)
		case ActionPlayCard:
			return e.playCard(ctx, a)
		case ActionMoveUnit, ActionAttackUnit, ActionEndPhase:
			return Result{}, domain.Illegal(domain.ReasonWindowOpen).WithData("action", a.Type)
		}
		return Result{}, domain.Illegal(domain.ReasonUnknownAction).WithData("action", a.Type)
	}
	if a.Type == ActionPass {
		return Result{}, domain.Illegal(domain.ReasonNoWindow)
	}
	if a.Player != e.store.ActivePlayer() {
		return Result{}, domain.Illegal(domain.ReasonNotActivePlayer).WithData("active", e.store.ActivePlayer())
	}
	switch a.Type {
	case ActionPlayCard:
		return e.playCard(ctx, a)
	case ActionMoveUnit:
		return e.moveUnit(ctx, a)
	case ActionAttackUnit:
		return e.attackUnit(ctx, a)
	case ActionEndPhase:
		return e.endPhase(ctx, a)
	}
	return Result{}, domain.Illegal(domain.ReasonUnknownAction).WithData("action", a.Type)
}

// fire 广播事件并把触发器产生的条目压栈。
func (e *Engine) fire(ctx context.Context, events []domain.GameEvent) {
	if len(events) == 0 {
		return
	}
	e.resolver.Enqueue(ctx, e.detector.EmitAll(ctx, events))
}

func (e *Engine) event(typ domain.EventType, p domain.PlayerID, payload map[string]any) domain.GameEvent {
	return e.detector.NewEvent(typ, p, e.store.Turn(), e.store.Phase(), payload)
}

func (e *Engine) pass(ctx context.Context, a Action) (Result, error) {
	out, err := e.resolver.Pass(ctx, a.Player)
	if err != nil {
		return Result{}, err
	}
	res := accepted("passed")
	if out.Message != "" {
		res.Message = out.Message
	}
	res.Resolution = &out
	return res, nil
}

func (e *Engine) endPhase(ctx context.Context, a Action) (Result, error) {
	tr, err := e.machine.EndPhase(ctx, a.Player)
	if err != nil {
		return Result{}, err
	}
	e.resolver.Enqueue(ctx, tr.Triggered)
	res := accepted("entered " + string(tr.To))
	res.Transition = &tr
	return res, nil
}
