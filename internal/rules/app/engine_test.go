package app

import (
	"context"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"Skirmish/internal/rules/domain"
	"Skirmish/internal/rules/stack"
	"Skirmish/modules/kit/logx"
)

// sureRand 必中、不暴击、不洗牌。
type sureRand struct{}

func (sureRand) Float64() float64            { return 0 }
func (sureRand) Intn(n int) int              { return n - 1 }
func (sureRand) Shuffle(int, func(i, j int)) {}

func testCatalog() domain.MemoryCatalog {
	var base domain.Stats
	base[domain.STR] = 10
	base[domain.DEF] = 10
	base[domain.END] = 20
	base[domain.SPD] = 10
	summon := func(id domain.CardID) domain.Card {
		return domain.Card{ID: id, Kind: domain.KindSummon, Summon: &domain.SummonCard{BaseStats: base}}
	}
	self := domain.TargetRestriction{Kind: domain.TargetUnit, Controller: domain.ControllerSelf}
	foe := domain.TargetRestriction{Kind: domain.TargetUnit, Controller: domain.ControllerOpponent}
	return domain.NewMemoryCatalog(
		summon("s1"), summon("s2"), summon("s3"),
		domain.Card{ID: "s4", Kind: domain.KindSummon, Summon: &domain.SummonCard{BaseStats: base, DefaultRole: "rA"}},
		domain.Card{ID: "rA", Kind: domain.KindRole, Role: &domain.RoleCard{Family: "war", Tier: 1}},
		domain.Card{ID: "rB", Kind: domain.KindRole, Role: &domain.RoleCard{Family: "war", Tier: 2, Parent: "rA",
			Modifiers: domain.StatModifiers{domain.STR: 2}}},
		domain.Card{ID: "bolt", Kind: domain.KindAction, Play: &domain.Playable{
			Speed:   domain.SpeedAction,
			Effects: []domain.Effect{domain.MustEffect(domain.DamageParams{Formula: "10"}, foe)},
		}},
		domain.Card{ID: "ward", Kind: domain.KindCounter, Play: &domain.Playable{
			Speed:   domain.SpeedCounter,
			Effects: []domain.Effect{domain.MustEffect(domain.LevelUpParams{Levels: 1}, self)},
		}},
		domain.Card{ID: "surge", Kind: domain.KindAction, Play: &domain.Playable{
			Speed:        domain.SpeedAction,
			Requirements: []domain.Requirement{domain.CanPayCost{Amount: 1}},
			Effects:      []domain.Effect{domain.MustEffect(domain.DamageParams{Formula: "1"}, foe)},
		}},
		domain.Card{ID: "tower", Kind: domain.KindBuilding, Play: &domain.Playable{
			Speed:   domain.SpeedAction,
			Effects: []domain.Effect{domain.MustEffect(domain.EnterPlayParams{})},
			Triggers: []domain.TriggerDef{{
				On:         domain.EventUnitSummoned,
				Controller: domain.ControllerSelf,
				Effects:    []domain.Effect{domain.MustEffect(domain.LevelUpParams{Levels: 1}, self)},
			}},
		}},
		domain.Card{ID: "blade", Kind: domain.KindEquipment, Equipment: &domain.EquipmentCard{
			Slot:    domain.SlotWeapon,
			Bonuses: domain.StatModifiers{domain.STR: 1.5},
			Power:   5,
			Range:   2,
		}},
		domain.Card{ID: "r1", Kind: domain.KindAction, Play: &domain.Playable{Speed: domain.SpeedAction,
			Effects: []domain.Effect{domain.MustEffect(domain.DamageParams{Formula: "0"}, foe)}}},
	)
}

func newEngine(t *testing.T, decks map[domain.PlayerID]Deck, opts Options) *Engine {
	t.Helper()
	if opts.Rand == nil {
		opts.Rand = sureRand{}
	}
	e, err := New(testCatalog(), Setup{Players: []domain.PlayerID{"p1", "p2"}, Decks: decks}, opts)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

// place 直接在场上放一个单位，跳过召唤流程。
func place(t *testing.T, e *Engine, id domain.UnitID, owner domain.PlayerID, card domain.CardID, at domain.Coord) {
	t.Helper()
	u, err := e.synth.Field(id, owner, card, at)
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	if err := e.store.PutUnit(u); err != nil {
		t.Fatalf("put: %v", err)
	}
}

func submit(t *testing.T, e *Engine, a Action) Result {
	t.Helper()
	res := e.Submit(context.Background(), a)
	if !res.Success {
		t.Fatalf("%s by %s rejected: %s (%s)", a.Type, a.Player, res.Message, res.Reason)
	}
	return res
}

func toAction(t *testing.T, e *Engine) {
	t.Helper()
	for e.store.Phase() != domain.PhaseAction {
		submit(t, e, Action{Type: ActionEndPhase, Player: e.store.ActivePlayer()})
	}
}

func TestNew_卡组校验(t *testing.T) {
	tests := []struct {
		name    string
		players []domain.PlayerID
		decks   map[domain.PlayerID]Deck
		reason  string
	}{
		{"玩家数不对", []domain.PlayerID{"p1"}, nil, domain.ReasonInvalidParams.Code},
		{"卡牌不存在", []domain.PlayerID{"p1", "p2"}, map[domain.PlayerID]Deck{"p1": {Main: []domain.CardID{"ghost"}}}, domain.ReasonCardNotFound.Code},
		{"同一张卡出现两次", []domain.PlayerID{"p1", "p2"}, map[domain.PlayerID]Deck{
			"p1": {Main: []domain.CardID{"s1"}},
			"p2": {Hand: []domain.CardID{"s1"}},
		}, domain.ReasonInvalidParams.Code},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(testCatalog(), Setup{Players: tt.players, Decks: tt.decks}, Options{Rand: sureRand{}})
			if domain.ReasonOf(err) != tt.reason {
				t.Fatalf("err=%v", err)
			}
		})
	}
}

func TestNew_起手抽牌(t *testing.T) {
	e, err := New(testCatalog(), Setup{
		Players:     []domain.PlayerID{"p1", "p2"},
		Decks:       map[domain.PlayerID]Deck{"p1": {Main: []domain.CardID{"s1", "s2", "s3"}}},
		OpeningHand: 2,
	}, Options{Rand: sureRand{}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	st := e.State()
	if st.Phase != domain.PhaseSetup || st.Turn != 1 || st.ActivePlayer != "p1" {
		t.Fatalf("state=%+v", st)
	}
	z := st.Zones["p1"]
	if len(z.Hand) != 2 || z.Hand[0] != "s1" || len(z.MainDeck) != 1 || z.MainDeck[0] != "s3" {
		t.Fatalf("zone=%+v", z)
	}
	if st.Board.Width != 12 || st.Board.Height != 14 {
		t.Fatalf("board=%dx%d", st.Board.Width, st.Board.Height)
	}
}

func TestNew_自定义棋盘(t *testing.T) {
	b := domain.NewBoard(4, 6, 1)
	e, err := New(testCatalog(), Setup{Players: []domain.PlayerID{"p1", "p2"}, Board: &b}, Options{Rand: sureRand{}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	st := e.State()
	if st.Board.Width != 4 || st.Board.Height != 6 || len(st.Board.Positions) != 24 {
		t.Fatalf("board=%dx%d positions=%d", st.Board.Width, st.Board.Height, len(st.Board.Positions))
	}
}

func TestSubmit_拒绝时状态不变(t *testing.T) {
	e := newEngine(t, map[domain.PlayerID]Deck{
		"p1": {Hand: []domain.CardID{"s1", "bolt"}, Main: []domain.CardID{"s2"}},
	}, Options{})
	tests := []struct {
		name   string
		action Action
		reason string
	}{
		{"非行动方", Action{Type: ActionEndPhase, Player: "p2"}, domain.ReasonNotActivePlayer.Code},
		{"未知玩家", Action{Type: ActionEndPhase, Player: "p9"}, domain.ReasonPlayerNotFound.Code},
		{"未知动作", Action{Type: "dance", Player: "p1"}, domain.ReasonUnknownAction.Code},
		{"没有窗口时让过", Action{Type: ActionPass, Player: "p1"}, domain.ReasonNoWindow.Code},
		{"非行动阶段召唤", Action{Type: ActionPlayCard, Player: "p1", Params: Params{CardID: "s1"}}, domain.ReasonWrongPhase.Code},
		{"空栈非行动阶段打出Action", Action{Type: ActionPlayCard, Player: "p1", Params: Params{CardID: "bolt"}}, domain.ReasonWrongPhase.Code},
		{"卡不在手牌", Action{Type: ActionPlayCard, Player: "p1", Params: Params{CardID: "s2"}}, domain.ReasonCardNotInHand.Code},
		{"非行动阶段移动", Action{Type: ActionMoveUnit, Player: "p1", Params: Params{Unit: "u1"}}, domain.ReasonWrongPhase.Code},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := e.State()
			res := e.Submit(context.Background(), tt.action)
			if res.Success || res.Reason != tt.reason {
				t.Fatalf("res=%+v", res)
			}
			if after := e.State(); !reflect.DeepEqual(before, after) {
				t.Fatalf("拒绝后状态被修改")
			}
		})
	}
}

func TestSubmit_召唤每回合一次且只能落在己方领地(t *testing.T) {
	e := newEngine(t, map[domain.PlayerID]Deck{"p1": {Hand: []domain.CardID{"s1", "s2"}}}, Options{})
	toAction(t, e)

	res := e.Submit(context.Background(), Action{Type: ActionPlayCard, Player: "p1", Params: Params{CardID: "s1", Position: domain.Coord{X: 0, Y: 5}}})
	if res.Reason != domain.ReasonNotOwnTerritory.Code {
		t.Fatalf("res=%+v", res)
	}
	res = submit(t, e, Action{Type: ActionPlayCard, Player: "p1", Params: Params{CardID: "s1", Position: domain.Coord{X: 0, Y: 2}}})
	u, ok := e.store.Unit(res.UnitID)
	if !ok || u.Level != 5 || u.HP != u.MaxHP || u.Position != (domain.Coord{X: 0, Y: 2}) {
		t.Fatalf("unit=%+v", u)
	}
	if len(res.Events) < 2 || res.Events[1].Type != domain.EventUnitSummoned {
		t.Fatalf("events=%+v", res.Events)
	}
	res = e.Submit(context.Background(), Action{Type: ActionPlayCard, Player: "p1", Params: Params{CardID: "s2", Position: domain.Coord{X: 1, Y: 2}}})
	if res.Reason != domain.ReasonSummonLimit.Code {
		t.Fatalf("第二次召唤应被拒绝: %+v", res)
	}
}

func TestSubmit_响应窗口后进先出(t *testing.T) {
	e := newEngine(t, map[domain.PlayerID]Deck{
		"p1": {Hand: []domain.CardID{"bolt"}},
		"p2": {Hand: []domain.CardID{"ward"}},
	}, Options{})
	toAction(t, e)
	place(t, e, "a", "p1", "s1", domain.Coord{X: 0, Y: 1})
	place(t, e, "b", "p2", "s2", domain.Coord{X: 0, Y: 12})

	submit(t, e, Action{Type: ActionPlayCard, Player: "p1", Params: Params{CardID: "bolt", Targets: []string{"b"}}})
	st := e.State()
	if !st.AwaitingResponse() || st.PriorityPlayer() != "p2" {
		t.Fatalf("优先权应交给 p2: %+v", st.Window)
	}
	if res := e.Submit(context.Background(), Action{Type: ActionEndPhase, Player: "p1"}); res.Reason != domain.ReasonNotPriority.Code {
		t.Fatalf("res=%+v", res)
	}
	if res := e.Submit(context.Background(), Action{Type: ActionMoveUnit, Player: "p2", Params: Params{Unit: "b"}}); res.Reason != domain.ReasonWindowOpen.Code {
		t.Fatalf("res=%+v", res)
	}

	submit(t, e, Action{Type: ActionPlayCard, Player: "p2", Params: Params{CardID: "ward", Targets: []string{"b"}}})
	submit(t, e, Action{Type: ActionPass, Player: "p1"})
	res := submit(t, e, Action{Type: ActionPass, Player: "p2"})
	out := res.Resolution
	if out == nil || out.Status != stack.StatusResolved || len(out.Resolved) != 2 {
		t.Fatalf("resolution=%+v", out)
	}
	if out.Resolved[0].SourceCard != "ward" || out.Resolved[1].SourceCard != "bolt" {
		t.Fatalf("结算顺序错误: %s, %s", out.Resolved[0].SourceCard, out.Resolved[1].SourceCard)
	}
	b, _ := e.store.Unit("b")
	if b.Level != 6 || b.HP != b.MaxHP-10 {
		t.Fatalf("b=%+v", b)
	}
	st = e.State()
	if st.AwaitingResponse() || len(st.Stack) != 0 {
		t.Fatalf("结算后应回到空栈")
	}
	if st.Zones["p1"].Discard[0] != "bolt" || st.Zones["p2"].Discard[0] != "ward" {
		t.Fatalf("discard p1=%v p2=%v", st.Zones["p1"].Discard, st.Zones["p2"].Discard)
	}
}

func TestSubmit_速度锁拒绝Action响应Counter(t *testing.T) {
	e := newEngine(t, map[domain.PlayerID]Deck{
		"p1": {Hand: []domain.CardID{"ward"}},
		"p2": {Hand: []domain.CardID{"bolt"}},
	}, Options{})
	toAction(t, e)
	place(t, e, "a", "p1", "s1", domain.Coord{X: 0, Y: 1})
	place(t, e, "b", "p2", "s2", domain.Coord{X: 0, Y: 12})

	submit(t, e, Action{Type: ActionPlayCard, Player: "p1", Params: Params{CardID: "ward", Targets: []string{"a"}}})
	if e.HasLegalResponse("p2") {
		t.Fatalf("Counter 在栈上时 Action 卡不算合法响应")
	}
	before := e.State()
	res := e.Submit(context.Background(), Action{Type: ActionPlayCard, Player: "p2", Params: Params{CardID: "bolt", Targets: []string{"a"}}})
	if res.Reason != domain.ReasonSpeedLocked.Code {
		t.Fatalf("res=%+v", res)
	}
	if !reflect.DeepEqual(before, e.State()) {
		t.Fatalf("拒绝后状态被修改")
	}
}

func TestSubmit_费用从充能区支付(t *testing.T) {
	e := newEngine(t, map[domain.PlayerID]Deck{"p1": {Hand: []domain.CardID{"surge"}}}, Options{})
	toAction(t, e)
	place(t, e, "b", "p2", "s2", domain.Coord{X: 0, Y: 12})

	play := Action{Type: ActionPlayCard, Player: "p1", Params: Params{CardID: "surge", Targets: []string{"b"}}}
	if res := e.Submit(context.Background(), play); res.Reason != domain.ReasonCostUnpayable.Code {
		t.Fatalf("res=%+v", res)
	}
	_ = e.store.PatchZone("p1", func(z *domain.PlayerZone) { z.Put(domain.ZoneRecharge, "r1") })
	submit(t, e, play)
	z, _ := e.store.Zone("p1")
	if len(z.Recharge) != 0 || len(z.Discard) != 1 || z.Discard[0] != "r1" {
		t.Fatalf("zone=%+v", z)
	}
}

func TestSubmit_建筑进场后触发器生效(t *testing.T) {
	e := newEngine(t, map[domain.PlayerID]Deck{"p1": {Hand: []domain.CardID{"tower", "s1"}}}, Options{})
	toAction(t, e)

	submit(t, e, Action{Type: ActionPlayCard, Player: "p1", Params: Params{CardID: "tower"}})
	submit(t, e, Action{Type: ActionPass, Player: "p2"})
	submit(t, e, Action{Type: ActionPass, Player: "p1"})
	if z, _ := e.store.Zone("p1"); len(z.InPlay) != 1 || z.InPlay[0] != "tower" {
		t.Fatalf("tower 应在场上: %+v", z)
	}

	res := submit(t, e, Action{Type: ActionPlayCard, Player: "p1", Params: Params{CardID: "s1", Position: domain.Coord{X: 3, Y: 0}}})
	st := e.State()
	if len(st.Stack) != 1 || st.Stack[0].Trigger == nil || st.PriorityPlayer() != "p2" {
		t.Fatalf("召唤应触发 tower: stack=%+v", st.Stack)
	}
	submit(t, e, Action{Type: ActionPass, Player: "p2"})
	submit(t, e, Action{Type: ActionPass, Player: "p1"})
	if u, _ := e.store.Unit(res.UnitID); u.Level != 6 {
		t.Fatalf("level=%d", u.Level)
	}
}

func TestSubmit_装备重新合成(t *testing.T) {
	e := newEngine(t, map[domain.PlayerID]Deck{"p1": {Hand: []domain.CardID{"blade"}}}, Options{})
	toAction(t, e)
	place(t, e, "a", "p1", "s1", domain.Coord{X: 0, Y: 1})

	submit(t, e, Action{Type: ActionPlayCard, Player: "p1", Params: Params{CardID: "blade", Unit: "a"}})
	u, _ := e.store.Unit("a")
	if u.Equipment[domain.SlotWeapon] != "blade" || u.Stats[domain.STR] != 15 {
		t.Fatalf("unit=%+v", u)
	}
	if e.board.Range(u) != 2 {
		t.Fatalf("range=%d", e.board.Range(u))
	}
}

func TestSubmit_换职业时默认职业不进弃牌堆(t *testing.T) {
	tests := []struct {
		name string
		deck Deck
		// rA 在各区域出现的总次数
		copies int
	}{
		{"手里只有进阶职业", Deck{Hand: []domain.CardID{"rB"}}, 0},
		{"另持有一张同名默认职业", Deck{Hand: []domain.CardID{"rB"}, Main: []domain.CardID{"rA"}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, map[domain.PlayerID]Deck{"p1": tt.deck}, Options{})
			toAction(t, e)
			place(t, e, "a", "p1", "s4", domain.Coord{X: 0, Y: 1})

			submit(t, e, Action{Type: ActionPlayCard, Player: "p1", Params: Params{CardID: "rB", Unit: "a"}})
			u, _ := e.store.Unit("a")
			if u.RoleCard != "rB" || u.RoleFromDefault || u.Stats[domain.STR] != 20 {
				t.Fatalf("unit=%+v", u)
			}
			z, _ := e.store.Zone("p1")
			copies := 0
			for _, pile := range [][]domain.CardID{z.Hand, z.MainDeck, z.AdvanceDeck, z.Discard, z.Recharge, z.InPlay} {
				for _, id := range pile {
					if id == "rA" {
						copies++
					}
				}
			}
			if copies != tt.copies {
				t.Fatalf("rA copies=%d want %d zone=%+v", copies, tt.copies, z)
			}
			for _, id := range z.Discard {
				if id == "rB" {
					t.Fatalf("discard=%v", z.Discard)
				}
			}
		})
	}
}

func TestSubmit_换下的实体职业卡进弃牌堆(t *testing.T) {
	e := newEngine(t, map[domain.PlayerID]Deck{"p1": {Hand: []domain.CardID{"rA", "rB"}}}, Options{})
	toAction(t, e)
	place(t, e, "a", "p1", "s1", domain.Coord{X: 0, Y: 1})

	submit(t, e, Action{Type: ActionPlayCard, Player: "p1", Params: Params{CardID: "rA", Unit: "a"}})
	submit(t, e, Action{Type: ActionPlayCard, Player: "p1", Params: Params{CardID: "rB", Unit: "a"}})
	z, _ := e.store.Zone("p1")
	if len(z.Discard) != 1 || z.Discard[0] != "rA" {
		t.Fatalf("discard=%v", z.Discard)
	}
}

func TestSubmit_达到三个胜利点立即结束对局(t *testing.T) {
	e := newEngine(t, nil, Options{})
	toAction(t, e)
	place(t, e, "a", "p1", "s1", domain.Coord{X: 0, Y: 2})
	place(t, e, "b", "p2", "s2", domain.Coord{X: 0, Y: 3})
	e.store.AddVictoryPoints("p1", 2)
	_, _ = e.store.SetUnitHP("b", 1)

	res := submit(t, e, Action{Type: ActionAttackUnit, Player: "p1", Params: Params{Unit: "a", Target: "b"}})
	if res.Attack == nil || !res.Attack.Hit || res.Attack.Defeat == nil || !res.Attack.Defeat.GameEnded {
		t.Fatalf("attack=%+v", res.Attack)
	}
	st := e.State()
	if !st.Ended || st.Winner != "p1" || st.VictoryPoints["p1"] != 3 || st.Phase != domain.PhaseAction {
		t.Fatalf("state ended=%v winner=%s vp=%v phase=%s", st.Ended, st.Winner, st.VictoryPoints, st.Phase)
	}
	if _, alive := st.Units["b"]; alive {
		t.Fatalf("b 应被移除")
	}
	last := res.Events[len(res.Events)-1]
	if last.Type != domain.EventGameEnded {
		t.Fatalf("last event=%s", last.Type)
	}
	if res := e.Submit(context.Background(), Action{Type: ActionEndPhase, Player: "p1"}); res.Reason != domain.ReasonGameEnded.Code {
		t.Fatalf("res=%+v", res)
	}
}

func TestSubmit_移动消耗移动力(t *testing.T) {
	e := newEngine(t, nil, Options{})
	toAction(t, e)
	place(t, e, "a", "p1", "s1", domain.Coord{X: 0, Y: 0})

	submit(t, e, Action{Type: ActionMoveUnit, Player: "p1", Params: Params{Unit: "a", Position: domain.Coord{X: 1, Y: 1}}})
	u, _ := e.store.Unit("a")
	if u.Position != (domain.Coord{X: 1, Y: 1}) || u.MovementUsed != 2 {
		t.Fatalf("unit=%+v", u)
	}
	res := e.Submit(context.Background(), Action{Type: ActionMoveUnit, Player: "p1", Params: Params{Unit: "a", Position: domain.Coord{X: 2, Y: 1}}})
	if res.Reason != domain.ReasonNoMovement.Code {
		t.Fatalf("res=%+v", res)
	}
}

func TestSubmit_五次结束阶段回到下一名玩家(t *testing.T) {
	e := newEngine(t, nil, Options{})
	var phases []domain.Phase
	for i := 0; i < 5; i++ {
		res := submit(t, e, Action{Type: ActionEndPhase, Player: e.store.ActivePlayer()})
		phases = append(phases, res.Transition.To)
	}
	want := []domain.Phase{domain.PhaseDraw, domain.PhaseLevel, domain.PhaseAction, domain.PhaseEnd, domain.PhaseDraw}
	if !reflect.DeepEqual(phases, want) {
		t.Fatalf("phases=%v", phases)
	}
	if st := e.State(); st.ActivePlayer != "p2" || st.Turn != 1 {
		t.Fatalf("active=%s turn=%d", st.ActivePlayer, st.Turn)
	}
	if len(e.Events()) != 5 {
		t.Fatalf("events=%d", len(e.Events()))
	}
}

func TestSubmit_访问日志与拒绝日志(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := newEngine(t, nil, Options{Log: logx.NewZapLogger(zap.New(core))})

	e.Submit(context.Background(), Action{Type: ActionEndPhase, Player: "p2"})
	access := logs.FilterMessage("access").All()
	if len(access) != 1 {
		t.Fatalf("access=%d", len(access))
	}
	fields := access[0].ContextMap()
	if fields["biz_code"] != int64(400) || fields["error_reason"] != domain.ReasonNotActivePlayer.Code || fields["player"] != "p2" {
		t.Fatalf("fields=%v", fields)
	}
	if biz := logs.FilterField(zap.String("err_type", "biz")).All(); len(biz) != 1 {
		t.Fatalf("biz=%d", len(biz))
	}

	e.Submit(context.Background(), Action{Type: ActionEndPhase, Player: "p1"})
	access = logs.FilterMessage("access").All()
	if len(access) != 2 || access[1].ContextMap()["biz_code"] != int64(0) {
		t.Fatalf("access=%+v", access)
	}
}
