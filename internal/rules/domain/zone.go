package domain

import "fmt"

type PlayerID string

// Zone 是卡牌所在的区域。Field 表示以单位形式在棋盘上。
type Zone string

const (
	ZoneHand        Zone = "hand"
	ZoneMainDeck    Zone = "mainDeck"
	ZoneAdvanceDeck Zone = "advanceDeck"
	ZoneDiscard     Zone = "discard"
	ZoneRecharge    Zone = "recharge"
	ZoneInPlay      Zone = "inPlay"
	ZoneStack       Zone = "stack"
	ZoneField       Zone = "field"
)

// CardZone 表示 PlayerZone 里以卡牌列表存放的区域。
func (z Zone) CardZone() bool {
	switch z {
	case ZoneHand, ZoneMainDeck, ZoneAdvanceDeck, ZoneDiscard, ZoneRecharge, ZoneInPlay:
		return true
	}
	return false
}

func ParseZone(s string) (Zone, error) {
	z := Zone(s)
	if z.CardZone() || z == ZoneField || z == ZoneStack {
		return z, nil
	}
	return "", fmt.Errorf("unknown zone %q", s)
}

// DefeatedUnit 记录被击败单位及其召唤卡。
type DefeatedUnit struct {
	Unit       UnitID
	SummonCard CardID
	Turn       int
}

// PlayerZone 是一名玩家的全部区域。牌库从下标 0 抽牌。
type PlayerZone struct {
	Hand        []CardID
	MainDeck    []CardID
	AdvanceDeck []CardID
	Discard     []CardID
	Recharge    []CardID
	InPlay      []CardID
	Units       []UnitID
	Defeated    []DefeatedUnit
}

// Pile 返回区域对应的切片指针，非卡牌区域返回 nil。
func (z *PlayerZone) Pile(zone Zone) *[]CardID {
	switch zone {
	case ZoneHand:
		return &z.Hand
	case ZoneMainDeck:
		return &z.MainDeck
	case ZoneAdvanceDeck:
		return &z.AdvanceDeck
	case ZoneDiscard:
		return &z.Discard
	case ZoneRecharge:
		return &z.Recharge
	case ZoneInPlay:
		return &z.InPlay
	}
	return nil
}

// Locate 找到卡牌所在区域。
func (z *PlayerZone) Locate(id CardID) (Zone, bool) {
	for _, zone := range []Zone{ZoneHand, ZoneMainDeck, ZoneAdvanceDeck, ZoneDiscard, ZoneRecharge, ZoneInPlay} {
		if indexOf(*z.Pile(zone), id) >= 0 {
			return zone, true
		}
	}
	return "", false
}

// Take 从区域中移除一张卡，返回是否存在。
func (z *PlayerZone) Take(zone Zone, id CardID) bool {
	pile := z.Pile(zone)
	if pile == nil {
		return false
	}
	i := indexOf(*pile, id)
	if i < 0 {
		return false
	}
	*pile = append((*pile)[:i:i], (*pile)[i+1:]...)
	return true
}

// Put 把卡追加到区域末尾。
func (z *PlayerZone) Put(zone Zone, id CardID) bool {
	pile := z.Pile(zone)
	if pile == nil {
		return false
	}
	*pile = append(*pile, id)
	return true
}

// Move 在两个区域间移动一张卡。
func (z *PlayerZone) Move(id CardID, from, to Zone) bool {
	if z.Pile(to) == nil || !z.Take(from, id) {
		return false
	}
	return z.Put(to, id)
}

func (z *PlayerZone) RemoveUnit(id UnitID) bool {
	for i, u := range z.Units {
		if u == id {
			z.Units = append(z.Units[:i:i], z.Units[i+1:]...)
			return true
		}
	}
	return false
}

func (z PlayerZone) Clone() PlayerZone {
	return PlayerZone{
		Hand:        cloneSlice(z.Hand),
		MainDeck:    cloneSlice(z.MainDeck),
		AdvanceDeck: cloneSlice(z.AdvanceDeck),
		Discard:     cloneSlice(z.Discard),
		Recharge:    cloneSlice(z.Recharge),
		InPlay:      cloneSlice(z.InPlay),
		Units:       cloneSlice(z.Units),
		Defeated:    cloneSlice(z.Defeated),
	}
}

func indexOf[T comparable](s []T, v T) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
