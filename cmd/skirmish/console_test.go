package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	matchactor "Skirmish/internal/match/actor"
	"Skirmish/internal/rules/app"
	"Skirmish/internal/rules/domain"
	"Skirmish/internal/shared/gameconfig/cards"
	"Skirmish/internal/shared/transport"
)

func newConsoleRuntime(t *testing.T) *matchactor.Runtime {
	t.Helper()
	catalog, err := cards.LoadStarter()
	if err != nil {
		t.Fatalf("load cards: %v", err)
	}
	rt := matchactor.NewRuntime(catalog, app.Options{}, time.Second)
	t.Cleanup(rt.Shutdown)
	return rt
}

func run(t *testing.T, rt *matchactor.Runtime, input string) []reply {
	t.Helper()
	var out bytes.Buffer
	if err := serve(context.Background(), rt, strings.NewReader(input), &out); err != nil {
		t.Fatalf("serve: %v", err)
	}
	var replies []reply
	dec := json.NewDecoder(&out)
	for dec.More() {
		var r reply
		if err := dec.Decode(&r); err != nil {
			t.Fatalf("decode: %v", err)
		}
		replies = append(replies, r)
	}
	return replies
}

func TestServe_逐行处理指令(t *testing.T) {
	rt := newConsoleRuntime(t)
	input := strings.Join([]string{
		`{"op":"create","match":"m1","setup":{"players":["p1","p2"],"decks":{"p1":{"hand":["wolf-001"]},"p2":{"hand":["owl-001"]}}}}`,
		`{"op":"submit","match":"m1","action":{"type":"endPhase","player":"p2"}}`,
		`{"op":"submit","match":"m1","action":{"type":"endPhase","player":"p1"}}`,
		``,
		`{"op":"state","match":"m1"}`,
		`{"op":"fly","match":"m1"}`,
		`not json`,
		`{"op":"close","match":"m1"}`,
		`{"op":"state","match":"m1"}`,
	}, "\n")
	replies := run(t, rt, input)
	if len(replies) != 8 {
		t.Fatalf("replies=%d", len(replies))
	}

	if !replies[0].OK || replies[0].View.Phase != domain.PhaseSetup || replies[0].View.Hands["p1"] != 1 {
		t.Fatalf("create=%+v", replies[0])
	}
	if replies[1].OK || replies[1].Reason != domain.ReasonNotActivePlayer.Code || replies[1].Result == nil {
		t.Fatalf("rejected submit=%+v", replies[1])
	}
	if !replies[2].OK || replies[2].Result.Transition == nil || replies[2].Result.Transition.To != domain.PhaseDraw {
		t.Fatalf("endPhase=%+v", replies[2])
	}
	if replies[3].View.Phase != domain.PhaseDraw {
		t.Fatalf("state=%+v", replies[3].View)
	}
	if replies[4].OK || replies[4].Reason != domain.ReasonUnknownAction.Code || replies[4].Code != int(transport.IllegalAction) {
		t.Fatalf("unknown op=%+v", replies[4])
	}
	if replies[5].OK || !strings.Contains(replies[5].Error, "bad command") {
		t.Fatalf("bad json=%+v", replies[5])
	}
	if !replies[6].OK {
		t.Fatalf("close=%+v", replies[6])
	}
	if replies[7].OK || replies[7].Code != int(transport.MissingReference) {
		t.Fatalf("state after close=%+v", replies[7])
	}
}

func TestLoadCards_相对路径按仓库根解析(t *testing.T) {
	root := filepath.Join("..", "..")
	cfg := filepath.Join(root, "configs", "conf.yml")
	cat, err := loadCards(cfg, "internal/shared/gameconfig/cards/starter.yml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := cat.Card("wolf-001"); !ok {
		t.Fatalf("starter card missing")
	}
	if _, err := loadCards(cfg, ""); err != nil {
		t.Fatalf("starter fallback: %v", err)
	}
}
