package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"

	matchactor "Skirmish/internal/match/actor"
	"Skirmish/internal/rules/app"
	"Skirmish/internal/rules/domain"
	"Skirmish/internal/shared/actor/messages"
	"Skirmish/internal/shared/logs"
	"Skirmish/internal/shared/transport"
	"Skirmish/modules/kit/tracex"
)

// command 是控制台每行输入的一条 JSON 指令。
type command struct {
	Op     string           `json:"op"`
	Match  messages.MatchID `json:"match"`
	Setup  *app.Setup       `json:"setup,omitempty"`
	Action *app.Action      `json:"action,omitempty"`
}

type reply struct {
	Op     string             `json:"op"`
	Match  messages.MatchID   `json:"match"`
	OK     bool               `json:"ok"`
	Code   int                `json:"code"`
	Error  string             `json:"error,omitempty"`
	Reason string             `json:"reason,omitempty"`
	Result *app.Result        `json:"result,omitempty"`
	View   *stateView         `json:"view,omitempty"`
	Events []domain.GameEvent `json:"events,omitempty"`
}

// stateView 是给控制台看的精简状态，不带棋盘格子。
type stateView struct {
	Turn          int                     `json:"turn"`
	Phase         domain.Phase            `json:"phase"`
	ActivePlayer  domain.PlayerID         `json:"activePlayer"`
	VictoryPoints map[domain.PlayerID]int `json:"victoryPoints"`
	Hands         map[domain.PlayerID]int `json:"hands"`
	Units         []unitView              `json:"units"`
	StackDepth    int                     `json:"stackDepth"`
	Priority      domain.PlayerID         `json:"priority,omitempty"`
	Ended         bool                    `json:"ended"`
	Winner        domain.PlayerID         `json:"winner,omitempty"`
}

type unitView struct {
	ID       domain.UnitID   `json:"id"`
	Owner    domain.PlayerID `json:"owner"`
	Card     domain.CardID   `json:"card"`
	Level    int             `json:"level"`
	HP       int             `json:"hp"`
	MaxHP    int             `json:"maxHp"`
	Position domain.Coord    `json:"position"`
}

func viewOf(st domain.GameState) *stateView {
	v := &stateView{
		Turn:          st.Turn,
		Phase:         st.Phase,
		ActivePlayer:  st.ActivePlayer,
		VictoryPoints: st.VictoryPoints,
		Hands:         make(map[domain.PlayerID]int, len(st.Zones)),
		StackDepth:    len(st.Stack),
		Ended:         st.Ended,
		Winner:        st.Winner,
	}
	if st.Window != nil {
		v.Priority = st.Window.Holder
	}
	for p, z := range st.Zones {
		v.Hands[p] = len(z.Hand)
	}
	for _, u := range st.Units {
		v.Units = append(v.Units, unitView{
			ID: u.ID, Owner: u.Owner, Card: u.SummonCard,
			Level: u.Level, HP: u.HP, MaxHP: u.MaxHP, Position: u.Position,
		})
	}
	sort.Slice(v.Units, func(i, j int) bool { return v.Units[i].ID < v.Units[j].ID })
	return v
}

// serve 逐行读取指令并输出一行 JSON 应答，输入结束或 ctx 取消时返回。
func serve(ctx context.Context, rt *matchactor.Runtime, in io.Reader, out io.Writer) error {
	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			line := append([]byte(nil), sc.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	enc := json.NewEncoder(out)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if len(line) == 0 {
				continue
			}
			if err := enc.Encode(handle(ctx, rt, line)); err != nil {
				return fmt.Errorf("write reply: %w", err)
			}
		}
	}
}

func handle(ctx context.Context, rt *matchactor.Runtime, line []byte) reply {
	var cmd command
	if err := json.Unmarshal(line, &cmd); err != nil {
		return reply{Code: int(transport.IllegalAction), Error: "bad command: " + err.Error()}
	}
	r := reply{Op: cmd.Op, Match: cmd.Match}
	ctx = tracex.WithTraceID(ctx, tracex.NewTraceID())

	var err error
	switch cmd.Op {
	case "create":
		if cmd.Setup == nil {
			err = domain.Illegal(domain.ReasonInvalidParams).WithMsg("setup is required")
			break
		}
		var st domain.GameState
		if st, err = rt.Create(ctx, cmd.Match, *cmd.Setup); err == nil {
			r.View = viewOf(st)
		}
	case "submit":
		if cmd.Action == nil {
			err = domain.Illegal(domain.ReasonInvalidParams).WithMsg("action is required")
			break
		}
		var res app.Result
		if res, err = rt.Submit(ctx, cmd.Match, *cmd.Action); err == nil {
			r.Result = &res
			r.Reason = res.Reason
		}
	case "state":
		var st domain.GameState
		if st, err = rt.State(ctx, cmd.Match); err == nil {
			r.View = viewOf(st)
		}
	case "events":
		r.Events, err = rt.Events(ctx, cmd.Match)
	case "close":
		var st domain.GameState
		if st, err = rt.Close(ctx, cmd.Match); err == nil {
			r.View = viewOf(st)
		}
	default:
		err = domain.Illegal(domain.ReasonUnknownAction).WithData("op", cmd.Op)
	}

	if err != nil {
		r.Code = int(matchactor.CodeFromError(err))
		r.Error = err.Error()
		r.Reason = domain.ReasonOf(err)
		logs.Debug("console command failed", zap.String("op", cmd.Op), zap.Error(err))
		return r
	}
	r.OK = r.Result == nil || r.Result.Success
	return r
}
