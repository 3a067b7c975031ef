package actors

import (
	"go.uber.org/zap"

	"Skirmish/internal/rules/app"
	"Skirmish/internal/rules/domain"
	"Skirmish/internal/shared/actor/messages"
	"Skirmish/modules/kit/logx"

	"github.com/asynkron/protoactor-go/actor"
)

// ManagerActor 只做路由：按 MatchID 建立或查找对局 actor，然后转发。
type ManagerActor struct {
	catalog domain.Catalog
	opts    app.Options
	log     logx.Logger
	matches map[messages.MatchID]*actor.PID // match id -> actor.pid
}

// NewManagerActor 的 opts 会被所有对局共享，Rand 必须为空，
// 让每局引擎各自创建随机源。
func NewManagerActor(catalog domain.Catalog, opts app.Options) *ManagerActor {
	opts.Rand = nil
	return &ManagerActor{
		catalog: catalog,
		opts:    opts,
		log:     logx.OrNop(opts.Log),
		matches: make(map[messages.MatchID]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		m.forget(msg.Who)
	case *messages.CreateMatch:
		m.create(ctx, msg)
	case *messages.CloseMatch:
		pid, ok := m.matches[msg.MatchID]
		if !ok {
			ctx.Respond(fail(msg.MatchID, matchNotFound(msg.MatchID)))
			return
		}
		delete(m.matches, msg.MatchID)
		ctx.Forward(pid)
	case messages.Routable:
		pid, ok := m.matches[msg.Match()]
		if !ok {
			ctx.Respond(fail(msg.Match(), matchNotFound(msg.Match())))
			return
		}
		ctx.Forward(pid)
	}
}

func (m *ManagerActor) create(ctx actor.Context, msg *messages.CreateMatch) {
	id := msg.MatchID
	if id == "" {
		ctx.Respond(fail(id, domain.Illegal(domain.ReasonInvalidParams).WithMsg("match id is empty")))
		return
	}
	if _, exists := m.matches[id]; exists {
		ctx.Respond(fail(id, matchExists(id)))
		return
	}

	opts := m.opts
	opts.Log = m.log.With(zap.String("match_id", string(id)))
	engine, err := app.New(m.catalog, msg.Setup, opts)
	if err != nil {
		ctx.Respond(fail(id, err))
		return
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMatchActor(id, engine, m.log)
	})
	// ManagerActor 创建子 actor，子 actor 停止时会收到 Terminated
	pid := ctx.Spawn(props)
	m.matches[id] = pid

	st := engine.State()
	reply := ok(id)
	reply.State = &st
	ctx.Respond(reply)
}

func (m *ManagerActor) forget(who *actor.PID) {
	if who == nil {
		return
	}
	for id, pid := range m.matches {
		if pid.Equal(who) {
			delete(m.matches, id)
			return
		}
	}
}
