package actors

import (
	"reflect"

	"github.com/asynkron/protoactor-go/actor"
)

// Dispatcher 按消息的具体类型找到处理函数。
type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value // handler 函数
	reqType reflect.Type  // 请求类型
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, MH.HandleSubmitAction)
	register(d, MH.HandleQueryState)
	register(d, MH.HandleQueryEvents)
	register(d, MH.HandleCloseMatch)
}

// register 注册处理函数，要求 Req 是指针消息。
func register[Req any](
	d *Dispatcher,
	fn func(ctx actor.Context, m *MatchActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType.Kind() != reflect.Ptr {
		panic("dispatcher req type must be pointer message")
	}
	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

// Dispatch 没有对应处理函数时返回 false，由调用方决定如何应答。
func (d *Dispatcher) Dispatch(ctx actor.Context, m *MatchActor, msg any) bool {
	if msg == nil {
		return false
	}
	handler, ok := d.handlers[reflect.TypeOf(msg)]
	if !ok {
		return false
	}
	v := reflect.ValueOf(msg)
	if v.IsNil() {
		return false
	}
	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(m),
		v,
	})
	return true
}
