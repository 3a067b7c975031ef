// Package messages 定义 match runtime 内 actor 之间传递的消息。
package messages

import (
	"Skirmish/internal/rules/app"
	"Skirmish/internal/rules/domain"
)

type MatchID string

// MatchBaseMessage 是所有对局消息的公共头，manager 按 MatchID 路由。
type MatchBaseMessage struct {
	MatchID MatchID
}

func (m MatchBaseMessage) Match() MatchID { return m.MatchID }

// Routable 是 manager 能识别并转发的消息。
type Routable interface {
	Match() MatchID
}

// CreateMatch 新建对局。同一 MatchID 重复创建会失败。
type CreateMatch struct {
	MatchBaseMessage
	Setup app.Setup
}

// SubmitAction 的 TraceID 由 runtime 从调用方 context 带过来，actor 内重新挂回。
type SubmitAction struct {
	MatchBaseMessage
	TraceID string
	Action  app.Action
}

type QueryState struct {
	MatchBaseMessage
}

type QueryEvents struct {
	MatchBaseMessage
}

type CloseMatch struct {
	MatchBaseMessage
}

// MatchReply 是所有请求的统一应答，Err 非空时其余字段无意义。
type MatchReply struct {
	MatchID MatchID
	Result  *app.Result
	State   *domain.GameState
	Events  []domain.GameEvent
	Err     error
}
