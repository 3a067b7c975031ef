package domain

import (
	"errors"
	"testing"
)

func TestParseCoord_往返(t *testing.T) {
	c := Coord{X: 3, Y: 11}
	got, err := ParseCoord(c.Key())
	if err != nil || got != c {
		t.Fatalf("got=%v err=%v", got, err)
	}
	if _, err := ParseCoord("3;11"); err == nil {
		t.Fatalf("期望格式错误")
	}
}

func TestNewBoard_领地划分(t *testing.T) {
	b := NewBoard(12, 14, 3)
	cases := []struct {
		c    Coord
		want Side
	}{
		{Coord{0, 0}, SideFirst},
		{Coord{5, 2}, SideFirst},
		{Coord{5, 3}, SideNeutral},
		{Coord{5, 10}, SideNeutral},
		{Coord{5, 11}, SideSecond},
		{Coord{11, 13}, SideSecond},
	}
	for _, tc := range cases {
		p, ok := b.At(tc.c)
		if !ok {
			t.Fatalf("%v 不存在", tc.c)
		}
		if p.Territory != tc.want {
			t.Fatalf("%v territory=%v want=%v", tc.c, p.Territory, tc.want)
		}
	}
	if len(b.Positions) != 12*14 {
		t.Fatalf("positions=%d", len(b.Positions))
	}
}

func TestPlayerZone_Move(t *testing.T) {
	z := &PlayerZone{Hand: []CardID{"a", "b", "c"}}
	if !z.Move("b", ZoneHand, ZoneRecharge) {
		t.Fatalf("move 失败")
	}
	if len(z.Hand) != 2 || z.Hand[0] != "a" || z.Hand[1] != "c" {
		t.Fatalf("hand=%v", z.Hand)
	}
	if zone, ok := z.Locate("b"); !ok || zone != ZoneRecharge {
		t.Fatalf("zone=%v ok=%v", zone, ok)
	}
	if z.Move("x", ZoneHand, ZoneDiscard) {
		t.Fatalf("不存在的卡不应移动")
	}
}

func TestGameState_Clone_互不影响(t *testing.T) {
	st := &GameState{
		Players:       []PlayerID{"p1", "p2"},
		Board:         NewBoard(2, 2, 1),
		Zones:         map[PlayerID]*PlayerZone{"p1": {Hand: []CardID{"a"}}},
		Units:         map[UnitID]*FieldedUnit{"u1": {ID: "u1", HP: 10}},
		VictoryPoints: map[PlayerID]int{"p1": 1},
		Stack:         []StackEntry{{ID: "e1", Targets: []string{"u1"}}},
		Window:        &ResponseWindow{Holder: "p2", Passed: []PlayerID{"p1"}},
	}
	cp := st.Clone()
	cp.Zones["p1"].Hand[0] = "z"
	cp.Units["u1"].HP = 1
	cp.VictoryPoints["p1"] = 3
	cp.Stack[0].Targets[0] = "u9"
	cp.Window.Passed[0] = "p9"
	p, _ := cp.Board.At(Coord{0, 0})
	p.Unit = "u1"

	if st.Zones["p1"].Hand[0] != "a" || st.Units["u1"].HP != 10 || st.VictoryPoints["p1"] != 1 {
		t.Fatalf("原状态被修改")
	}
	if st.Stack[0].Targets[0] != "u1" || st.Window.Passed[0] != "p1" {
		t.Fatalf("栈或窗口被修改")
	}
	if orig, _ := st.Board.At(Coord{0, 0}); orig.Unit != "" {
		t.Fatalf("棋盘被修改")
	}
}

func TestNewEffect_构造期校验(t *testing.T) {
	cases := []struct {
		name    string
		params  EffectParams
		wantErr bool
	}{
		{"治疗公式为空", HealParams{}, true},
		{"治疗", HealParams{Formula: "10"}, false},
		{"升级数为0", LevelUpParams{}, true},
		{"升级", LevelUpParams{Levels: 1}, false},
		{"非卡牌区域", ZoneChangeParams{To: ZoneField}, true},
		{"移到弃牌区", ZoneChangeParams{To: ZoneDiscard}, false},
		{"nil", nil, true},
	}
	for _, tc := range cases {
		_, err := NewEffect(tc.params)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: err=%v", tc.name, err)
		}
	}
}

func TestIllegal_带原因码(t *testing.T) {
	err := Illegal(ReasonWrongPhase)
	if !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("应匹配 ErrIllegalAction")
	}
	if ReasonOf(err) != ReasonWrongPhase.Code {
		t.Fatalf("reason=%q", ReasonOf(err))
	}
	if ErrIllegalAction.Reason() != "" {
		t.Fatalf("哨兵错误被污染")
	}
}

func TestGrowthRate_倍率(t *testing.T) {
	m, ok := GrowthC.Multiplier()
	if !ok || m != 0.66 {
		t.Fatalf("m=%v", m)
	}
	if _, err := ParseGrowthRate("z"); err == nil {
		t.Fatalf("期望未知档位报错")
	}
	if g, err := ParseGrowthRate("ss"); err != nil || g != GrowthSS {
		t.Fatalf("g=%v err=%v", g, err)
	}
}
