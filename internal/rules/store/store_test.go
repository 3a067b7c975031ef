package store

import (
	"errors"
	"testing"

	"Skirmish/internal/rules/domain"
)

func newTestStore() *Store {
	return New(domain.GameState{
		Turn:         1,
		Players:      []domain.PlayerID{"p1", "p2"},
		ActivePlayer: "p1",
		Phase:        domain.PhaseAction,
		Board:        domain.NewBoard(4, 6, 1),
		Zones: map[domain.PlayerID]*domain.PlayerZone{
			"p1": {Hand: []domain.CardID{"c1", "c2"}},
		},
	}, Options{MaxLevel: 20, VictoryPoints: 3})
}

func putUnit(t *testing.T, s *Store, id domain.UnitID, owner domain.PlayerID, at domain.Coord) {
	t.Helper()
	err := s.PutUnit(domain.FieldedUnit{ID: id, Owner: owner, SummonCard: domain.CardID("s-" + id), Level: 5, MaxHP: 100, HP: 100, Position: at})
	if err != nil {
		t.Fatalf("put %s: %v", id, err)
	}
}

func TestSnapshot_修改快照不影响状态(t *testing.T) {
	s := newTestStore()
	snap := s.Snapshot()
	snap.Zones["p1"].Hand[0] = "zz"
	snap.Phase = domain.PhaseEnd
	z, _ := s.Zone("p1")
	if z.Hand[0] != "c1" || s.Phase() != domain.PhaseAction {
		t.Fatalf("权威状态被快照修改")
	}
	if _, ok := s.Zone("p2"); !ok {
		t.Fatalf("缺失的玩家区域应补齐")
	}
}

func TestSetUnitHP_钳制边界(t *testing.T) {
	s := newTestStore()
	putUnit(t, s, "u1", "p1", domain.Coord{X: 0, Y: 0})
	cases := []struct{ in, want int }{
		{150, 100}, {-5, 0}, {42, 42},
	}
	for _, tc := range cases {
		got, err := s.SetUnitHP("u1", tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("SetUnitHP(%d)=%d err=%v", tc.in, got, err)
		}
	}
	if _, err := s.SetUnitHP("nope", 1); !errors.Is(err, domain.ErrMissingReference) {
		t.Fatalf("err=%v", err)
	}
}

func TestSetUnitLevel_钳制边界(t *testing.T) {
	s := newTestStore()
	putUnit(t, s, "u1", "p1", domain.Coord{})
	for _, tc := range []struct{ in, want int }{{25, 20}, {0, 1}, {7, 7}} {
		got, err := s.SetUnitLevel("u1", tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("SetUnitLevel(%d)=%d err=%v", tc.in, got, err)
		}
	}
}

func TestPutUnit_格子占用(t *testing.T) {
	s := newTestStore()
	putUnit(t, s, "u1", "p1", domain.Coord{X: 1, Y: 0})
	err := s.PutUnit(domain.FieldedUnit{ID: "u2", Owner: "p1", Position: domain.Coord{X: 1, Y: 0}})
	if domain.ReasonOf(err) != domain.ReasonPositionOccupied.Code {
		t.Fatalf("err=%v", err)
	}
	pos, _ := s.Position(domain.Coord{X: 1, Y: 0})
	if pos.Unit != "u1" {
		t.Fatalf("unit layer=%q", pos.Unit)
	}
}

func TestMoveUnit_更新单位层(t *testing.T) {
	s := newTestStore()
	putUnit(t, s, "u1", "p1", domain.Coord{X: 0, Y: 0})
	if err := s.MoveUnit("u1", domain.Coord{X: 2, Y: 3}); err != nil {
		t.Fatalf("move: %v", err)
	}
	from, _ := s.Position(domain.Coord{X: 0, Y: 0})
	to, _ := s.Position(domain.Coord{X: 2, Y: 3})
	u, _ := s.Unit("u1")
	if from.Unit != "" || to.Unit != "u1" || u.Position != (domain.Coord{X: 2, Y: 3}) {
		t.Fatalf("from=%q to=%q pos=%v", from.Unit, to.Unit, u.Position)
	}
}

func TestRemoveUnit_清理棋盘和单位列表(t *testing.T) {
	s := newTestStore()
	putUnit(t, s, "u1", "p1", domain.Coord{X: 0, Y: 0})
	if _, err := s.RemoveUnit("u1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	pos, _ := s.Position(domain.Coord{})
	z, _ := s.Zone("p1")
	if pos.Unit != "" || len(z.Units) != 0 || len(z.Defeated) != 1 || z.Defeated[0].SummonCard != "s-u1" {
		t.Fatalf("pos=%q zone=%+v", pos.Unit, z)
	}
	if _, ok := s.Unit("u1"); ok {
		t.Fatalf("单位仍在单位表中")
	}
}

func TestPatchZone_重复卡牌回滚(t *testing.T) {
	s := newTestStore()
	err := s.PatchZone("p1", func(z *domain.PlayerZone) {
		z.Discard = append(z.Discard, "c1")
	})
	if err == nil {
		t.Fatalf("期望重复卡牌报错")
	}
	z, _ := s.Zone("p1")
	if len(z.Discard) != 0 || len(z.Hand) != 2 {
		t.Fatalf("未回滚: %+v", z)
	}
	if err := s.PatchZone("p1", func(z *domain.PlayerZone) { z.Move("c1", domain.ZoneHand, domain.ZoneDiscard) }); err != nil {
		t.Fatalf("patch: %v", err)
	}
	z, _ = s.Zone("p1")
	if len(z.Discard) != 1 || len(z.Hand) != 1 {
		t.Fatalf("zone=%+v", z)
	}
}

func TestAddVictoryPoints_单调且达到阈值结束(t *testing.T) {
	s := newTestStore()
	if total, _ := s.AddVictoryPoints("p2", -1); total != 0 {
		t.Fatalf("负数不应生效, total=%d", total)
	}
	s.AddVictoryPoints("p2", 1)
	s.AddVictoryPoints("p2", 1)
	if s.Ended() {
		t.Fatalf("2 分不应结束")
	}
	total, ended := s.AddVictoryPoints("p2", 1)
	if total != 3 || !ended || s.Winner() != "p2" {
		t.Fatalf("total=%d ended=%v winner=%q", total, ended, s.Winner())
	}
	if s.Phase() != domain.PhaseAction {
		t.Fatalf("结束不改变阶段")
	}
}

func TestStack_压栈出栈与窗口(t *testing.T) {
	s := newTestStore()
	s.PushEntry(domain.StackEntry{ID: "a"})
	s.PushEntry(domain.StackEntry{ID: "b"})
	s.SetWindow(&domain.ResponseWindow{Origin: "p2", Holder: "p2"})
	if top, _ := s.Top(); top.ID != "b" {
		t.Fatalf("top=%q", top.ID)
	}
	if e, _ := s.PopEntry(); e.ID != "b" || s.StackLen() != 1 {
		t.Fatalf("pop=%q len=%d", e.ID, s.StackLen())
	}
	dropped := s.ClearStack()
	if len(dropped) != 1 || s.StackLen() != 0 {
		t.Fatalf("dropped=%d", len(dropped))
	}
	if _, ok := s.Window(); ok {
		t.Fatalf("清栈应关闭窗口")
	}
}
