package actors

import (
	"go.uber.org/zap"

	"Skirmish/internal/rules/app"
	"Skirmish/internal/shared/actor/messages"
	"Skirmish/modules/kit/logx"

	"github.com/asynkron/protoactor-go/actor"
)

type State int

const (
	None State = iota
	Online
	Stopping
	Offline
)

// MatchActor 持有一局对局的引擎。引擎本身单线程，所有动作都经邮箱串行执行。
type MatchActor struct {
	state      State
	matchID    messages.MatchID
	engine     *app.Engine
	dispatcher *Dispatcher
	log        logx.Logger
}

func NewMatchActor(matchID messages.MatchID, engine *app.Engine, log logx.Logger) *MatchActor {
	return &MatchActor{
		state:      None,
		matchID:    matchID,
		engine:     engine,
		dispatcher: NewDispatcher(),
		log:        logx.OrNop(log).With(zap.String("match_id", string(matchID))),
	}
}

func (m *MatchActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		m.state = Online
		m.log.Info("match online")
		return
	case *actor.Stopping:
		m.state = Stopping
		return
	case *actor.Stopped:
		m.state = Offline
		m.log.Info("match offline")
		return
	case *actor.Restarting:
		return
	default:
		if m.state != Online {
			if ctx.Sender() != nil {
				ctx.Respond(fail(m.matchID, matchNotFound(m.matchID)))
			}
			return
		}
		if !m.dispatcher.Dispatch(ctx, m, msg) && ctx.Sender() != nil {
			ctx.Respond(fail(m.matchID, unknownMessage(msg)))
		}
	}
}

func (m *MatchActor) MatchID() messages.MatchID {
	return m.matchID
}

func (m *MatchActor) Engine() *app.Engine {
	return m.engine
}
