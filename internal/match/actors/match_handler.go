package actors

import (
	"context"

	"Skirmish/internal/shared/actor/messages"
	"Skirmish/modules/kit/tracex"

	"github.com/asynkron/protoactor-go/actor"
)

type MatchHandler struct {
}

// 全局实例
var MH = &MatchHandler{}

func (h *MatchHandler) HandleSubmitAction(ctx actor.Context, m *MatchActor, req *messages.SubmitAction) {
	c := tracex.WithMatchID(context.Background(), string(m.matchID))
	if req.TraceID != "" {
		c = tracex.WithTraceID(c, req.TraceID)
	}
	res := m.engine.Submit(c, req.Action)
	reply := ok(m.matchID)
	reply.Result = &res
	ctx.Respond(reply)
}

func (h *MatchHandler) HandleQueryState(ctx actor.Context, m *MatchActor, _ *messages.QueryState) {
	st := m.engine.State()
	reply := ok(m.matchID)
	reply.State = &st
	ctx.Respond(reply)
}

func (h *MatchHandler) HandleQueryEvents(ctx actor.Context, m *MatchActor, _ *messages.QueryEvents) {
	reply := ok(m.matchID)
	reply.Events = m.engine.Events()
	ctx.Respond(reply)
}

// HandleCloseMatch 先应答再停掉自己，manager 在转发时已摘掉路由。
func (h *MatchHandler) HandleCloseMatch(ctx actor.Context, m *MatchActor, _ *messages.CloseMatch) {
	st := m.engine.State()
	reply := ok(m.matchID)
	reply.State = &st
	ctx.Respond(reply)
	ctx.Stop(ctx.Self())
}
