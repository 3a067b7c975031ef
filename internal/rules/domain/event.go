package domain

import (
	"maps"
	"time"
)

type EventType string

const (
	EventCardPlayed      EventType = "cardPlayed"
	EventCardDrawn       EventType = "cardDrawn"
	EventCardMoved       EventType = "cardMoved"
	EventCardEnteredPlay EventType = "cardEnteredPlay"
	EventUnitSummoned    EventType = "unitSummoned"
	EventUnitMoved       EventType = "unitMoved"
	EventAttackDeclared  EventType = "attackDeclared"
	EventUnitDamaged     EventType = "unitDamaged"
	EventUnitHealed      EventType = "unitHealed"
	EventUnitLeveled     EventType = "unitLeveled"
	EventUnitDefeated    EventType = "unitDefeated"
	EventVictoryPoint    EventType = "victoryPoint"
	EventPhaseEntered    EventType = "phaseEntered"
	EventGameEnded       EventType = "gameEnded"
)

// 事件载荷的常用键。
const (
	PayloadUnit   = "unit"
	PayloadCard   = "card"
	PayloadAmount = "amount"
	PayloadFrom   = "from"
	PayloadTo     = "to"
	PayloadTarget = "target"
)

// GameEvent 的 Player 是事件归属方（单位或卡牌的控制者）。
type GameEvent struct {
	ID        string
	Type      EventType
	Player    PlayerID
	Turn      int
	Phase     Phase
	Payload   map[string]any
	Timestamp time.Time
}

func (e GameEvent) PayloadString(key string) string {
	v, _ := e.Payload[key].(string)
	return v
}

func (e GameEvent) Clone() GameEvent {
	e.Payload = maps.Clone(e.Payload)
	return e
}

// TriggerDef 是卡牌上声明的触发器：事件类型 + 控制方关系 + 可选阶段。
type TriggerDef struct {
	On         EventType
	Controller Controller
	Phase      Phase
	Effects    []Effect
	// TargetKey 从事件载荷里取目标 id 的键，默认 unit
	TargetKey string
}

// Rand 是规则引擎使用的随机源，*math/rand.Rand 满足该接口。
type Rand interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}
