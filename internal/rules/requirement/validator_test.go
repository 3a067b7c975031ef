package requirement

import (
	"reflect"
	"testing"

	"Skirmish/internal/rules/domain"
	"Skirmish/internal/rules/store"
)

func testCatalog() domain.MemoryCatalog {
	return domain.NewMemoryCatalog(
		domain.Card{ID: "role-mage", Kind: domain.KindRole, Role: &domain.RoleCard{Family: "mage", Tier: 1}},
		domain.Card{ID: "role-archmage", Kind: domain.KindRole, Role: &domain.RoleCard{Family: "mage", Tier: 2, Parent: "role-mage"}},
		domain.Card{ID: "role-sage", Kind: domain.KindRole, Role: &domain.RoleCard{Family: "mage", Tier: 2}},
		domain.Card{ID: "role-knight", Kind: domain.KindRole, Role: &domain.RoleCard{Family: "knight", Tier: 1}},
	)
}

func newFixture(t *testing.T) (*store.Store, *Validator) {
	t.Helper()
	st := store.New(domain.GameState{
		Turn:         1,
		Players:      []domain.PlayerID{"p1", "p2"},
		ActivePlayer: "p1",
		Phase:        domain.PhaseAction,
		Board:        domain.NewBoard(12, 14, 3),
		Zones: map[domain.PlayerID]*domain.PlayerZone{
			"p1": {Recharge: []domain.CardID{"r1", "r2"}, Discard: []domain.CardID{"d1"}},
			"p2": {Discard: []domain.CardID{"d2"}, Hand: []domain.CardID{"h2"}},
		},
	}, store.Options{})
	units := []domain.FieldedUnit{
		{ID: "a1", Owner: "p1", RoleCard: "role-mage", Level: 5, MaxHP: 10, HP: 10, Position: domain.Coord{X: 2, Y: 2}},
		{ID: "a2", Owner: "p1", RoleCard: "role-knight", Level: 8, MaxHP: 10, HP: 10, Position: domain.Coord{X: 3, Y: 2}},
		{ID: "b1", Owner: "p2", RoleCard: "role-knight", Level: 5, MaxHP: 10, HP: 10, Position: domain.Coord{X: 2, Y: 5}},
		{ID: "b2", Owner: "p2", RoleCard: "role-mage", Level: 12, MaxHP: 10, HP: 10, Position: domain.Coord{X: 2, Y: 11}},
	}
	for _, u := range units {
		if err := st.PutUnit(u); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	return st, NewValidator(st, testCatalog())
}

func TestCheck_首个失败短路(t *testing.T) {
	_, v := newFixture(t)
	cases := []struct {
		name   string
		reqs   []domain.Requirement
		reason string
		index  int
	}{
		{"全部满足", []domain.Requirement{domain.ControlsRoleFamily{Family: "mage"}, domain.ControlsUnits{Min: 2}, domain.CanPayCost{Amount: 2}}, "", 0},
		{"缺职业系", []domain.Requirement{domain.ControlsUnits{Min: 1}, domain.ControlsRoleFamily{Family: "rogue"}, domain.CanPayCost{Amount: 9}}, domain.ReasonRequirementUnmet.Code, 1},
		{"单位不足", []domain.Requirement{domain.ControlsUnits{Min: 3}}, domain.ReasonRequirementUnmet.Code, 0},
		{"费用不足", []domain.Requirement{domain.CanPayCost{Amount: 3}}, domain.ReasonCostUnpayable.Code, 0},
		{"无合法目标", []domain.Requirement{domain.HasTarget{Restriction: domain.TargetRestriction{Kind: domain.TargetUnit, Controller: domain.ControllerOpponent, MinLevel: 20}}}, domain.ReasonRequirementUnmet.Code, 0},
	}
	for _, tc := range cases {
		err := v.Check("p1", tc.reqs, "")
		if domain.ReasonOf(err) != tc.reason {
			t.Fatalf("%s: err=%v", tc.name, err)
		}
		if err == nil {
			continue
		}
		xe, _ := err.(interface{ Data() map[string]any })
		if xe.Data()["index"] != tc.index {
			t.Fatalf("%s: index=%v", tc.name, xe.Data()["index"])
		}
		if xe.Data()["requirement"] != tc.reqs[tc.index].Describe() {
			t.Fatalf("%s: 描述=%v", tc.name, xe.Data()["requirement"])
		}
	}
}

func TestTargets_约束组合(t *testing.T) {
	_, v := newFixture(t)
	cases := []struct {
		name   string
		rs     []domain.TargetRestriction
		caster domain.UnitID
		want   []string
	}{
		{"敌方单位", []domain.TargetRestriction{{Kind: domain.TargetUnit, Controller: domain.ControllerOpponent}}, "", []string{"b1", "b2"}},
		{"己方法师系", []domain.TargetRestriction{{Controller: domain.ControllerSelf, RoleFamily: "mage"}}, "", []string{"a1"}},
		{"最低等级", []domain.TargetRestriction{{MinLevel: 8}}, "", []string{"a2", "b2"}},
		{"射程", []domain.TargetRestriction{{Controller: domain.ControllerOpponent, Range: 3}}, "a1", []string{"b1"}},
		{"射程但无施放者", []domain.TargetRestriction{{Range: 3}}, "", nil},
		{"对方弃牌区", []domain.TargetRestriction{{Kind: domain.TargetCard, Controller: domain.ControllerOpponent, Zone: domain.ZoneDiscard}}, "", []string{"d2"}},
		{"任意弃牌区", []domain.TargetRestriction{{Kind: domain.TargetCard, Zone: domain.ZoneDiscard}}, "", []string{"d1", "d2"}},
		{"无约束", nil, "", nil},
	}
	for _, tc := range cases {
		got := v.Targets("p1", tc.rs, tc.caster)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: got=%v want=%v", tc.name, got, tc.want)
		}
	}
	if !v.IsValidTarget("p1", []domain.TargetRestriction{{Controller: domain.ControllerOpponent}}, "", "b2") {
		t.Fatalf("b2 应是合法目标")
	}
	if err := v.CheckTarget("p1", []domain.TargetRestriction{{Controller: domain.ControllerOpponent}}, "", "a1"); domain.ReasonOf(err) != domain.ReasonTargetInvalid.Code {
		t.Fatalf("err=%v", err)
	}
}

func TestPayCost_充能区移入弃牌区(t *testing.T) {
	st, v := newFixture(t)
	paid, err := v.PayCost("p1", 1)
	if err != nil || len(paid) != 1 || paid[0] != "r1" {
		t.Fatalf("paid=%v err=%v", paid, err)
	}
	z, _ := st.Zone("p1")
	if !reflect.DeepEqual(z.Recharge, []domain.CardID{"r2"}) || !reflect.DeepEqual(z.Discard, []domain.CardID{"d1", "r1"}) {
		t.Fatalf("zone=%+v", z)
	}
	if _, err := v.PayCost("p1", 5); domain.ReasonOf(err) != domain.ReasonCostUnpayable.Code {
		t.Fatalf("err=%v", err)
	}
}

func TestValidateRoleChange_进阶路线(t *testing.T) {
	st, v := newFixture(t)
	a1, _ := st.Unit("a1")
	a2, _ := st.Unit("a2")
	catalog := testCatalog()
	role := func(id domain.CardID) *domain.RoleCard { return catalog[id].Role }

	if err := v.ValidateRoleChange(a1, role("role-archmage")); err != nil {
		t.Fatalf("法师进阶应允许: %v", err)
	}
	if err := v.ValidateRoleChange(a2, role("role-archmage")); domain.ReasonOf(err) != domain.ReasonRoleMismatch.Code {
		t.Fatalf("骑士不能进阶大法师: %v", err)
	}
	if err := v.ValidateRoleChange(a1, role("role-sage")); err != nil {
		t.Fatalf("同系高一阶应允许: %v", err)
	}
	if err := v.ValidateRoleChange(a2, role("role-mage")); err != nil {
		t.Fatalf("一阶职业可直接更换: %v", err)
	}
}
