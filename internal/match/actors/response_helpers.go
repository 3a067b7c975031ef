package actors

import (
	"Skirmish/internal/shared/actor/messages"
)

func fail(id messages.MatchID, err error) *messages.MatchReply {
	return &messages.MatchReply{MatchID: id, Err: err}
}

func ok(id messages.MatchID) *messages.MatchReply {
	return &messages.MatchReply{MatchID: id}
}
