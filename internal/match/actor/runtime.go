// Package actor 用 protoactor 承载多局对局：每局一个 actor，局内动作严格串行。
package actor

import (
	"context"
	"errors"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"Skirmish/internal/match/actors"
	"Skirmish/internal/rules/app"
	"Skirmish/internal/rules/domain"
	"Skirmish/internal/shared/actor/messages"
	"Skirmish/internal/shared/transport"
	"Skirmish/modules/kit/tracex"
)

const defaultAskTimeout = 3 * time.Second

type RuntimeError struct {
	Code    transport.BizCode
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

// NewRuntime 启动 actor 系统并挂上 manager。opts 被所有对局共享。
func NewRuntime(catalog domain.Catalog, opts app.Options, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	// manager 只做路由和建局，不跑规则
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(catalog, opts)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		// 子 actor 随 manager 一起停
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

// Create 新建对局并返回开局状态。
func (r *Runtime) Create(ctx context.Context, id messages.MatchID, setup app.Setup) (domain.GameState, error) {
	reply, err := r.ask(ctx, &messages.CreateMatch{
		MatchBaseMessage: messages.MatchBaseMessage{MatchID: id},
		Setup:            setup,
	})
	if err != nil {
		return domain.GameState{}, err
	}
	return *reply.State, nil
}

// Submit 把动作投递给对局 actor。规则拒绝体现在 Result 里，error 只表示投递失败。
func (r *Runtime) Submit(ctx context.Context, id messages.MatchID, a app.Action) (app.Result, error) {
	msg := &messages.SubmitAction{
		MatchBaseMessage: messages.MatchBaseMessage{MatchID: id},
		Action:           a,
	}
	if ctx != nil {
		msg.TraceID, _ = tracex.TraceIDFrom(ctx)
	}
	reply, err := r.ask(ctx, msg)
	if err != nil {
		return app.Result{}, err
	}
	return *reply.Result, nil
}

func (r *Runtime) State(ctx context.Context, id messages.MatchID) (domain.GameState, error) {
	reply, err := r.ask(ctx, &messages.QueryState{MatchBaseMessage: messages.MatchBaseMessage{MatchID: id}})
	if err != nil {
		return domain.GameState{}, err
	}
	return *reply.State, nil
}

func (r *Runtime) Events(ctx context.Context, id messages.MatchID) ([]domain.GameEvent, error) {
	reply, err := r.ask(ctx, &messages.QueryEvents{MatchBaseMessage: messages.MatchBaseMessage{MatchID: id}})
	if err != nil {
		return nil, err
	}
	return reply.Events, nil
}

// Close 结束对局 actor，返回关闭前的最终状态。
func (r *Runtime) Close(ctx context.Context, id messages.MatchID) (domain.GameState, error) {
	reply, err := r.ask(ctx, &messages.CloseMatch{MatchBaseMessage: messages.MatchBaseMessage{MatchID: id}})
	if err != nil {
		return domain.GameState{}, err
	}
	return *reply.State, nil
}

func (r *Runtime) ask(ctx context.Context, msg any) (*messages.MatchReply, error) {
	res, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}
	reply, ok := res.(*messages.MatchReply)
	if !ok || reply == nil {
		return nil, &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor 返回类型非法",
		}
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	return reply, nil
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	// 发送后阻塞等待：对方 Respond 回到 future，或超时返回 ErrTimeout
	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		code := transport.SystemError
		if errors.Is(err, protoactor.ErrTimeout) {
			code = transport.Timeout
		}
		return nil, &RuntimeError{
			Code:    code,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

// CodeFromError 先看 runtime 自身的错误码，再交给规则错误映射。
func CodeFromError(err error) transport.BizCode {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.CodeFromError(err)
}
