package actors

import (
	"fmt"

	"Skirmish/internal/rules/domain"
	"Skirmish/modules/kit/errx"
)

var (
	ReasonMatchNotFound = errx.NewReason("MATCH_NOT_FOUND", "对局不存在")
	ReasonMatchExists   = errx.NewReason("MATCH_EXISTS", "对局已存在")
	ReasonUnknownMsg    = errx.NewReason("UNKNOWN_MESSAGE", "无法处理的消息")
)

func matchNotFound(id any) error {
	return domain.Missing(ReasonMatchNotFound, "match", id)
}

func matchExists(id any) error {
	return domain.Illegal(ReasonMatchExists).WithData("match", id)
}

func unknownMessage(msg any) error {
	return domain.Illegal(ReasonUnknownMsg).WithData("type", fmt.Sprintf("%T", msg))
}
