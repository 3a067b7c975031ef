package domain

import (
	"fmt"
	"strings"
)

// Stat 是九项基础属性之一，名字同时是公式里的变量名。
type Stat int

const (
	STR Stat = iota
	MAG
	END
	DEF
	RES
	SPD
	ACC
	LCK
	WIL

	StatCount
)

var statNames = [StatCount]string{"STR", "MAG", "END", "DEF", "RES", "SPD", "ACC", "LCK", "WIL"}

func (s Stat) String() string {
	if s < 0 || s >= StatCount {
		return fmt.Sprintf("Stat(%d)", int(s))
	}
	return statNames[s]
}

// ParseStat 大小写不敏感。
func ParseStat(name string) (Stat, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range statNames {
		if n == upper {
			return Stat(i), true
		}
	}
	return 0, false
}

// AllStats 按固定顺序返回全部属性。
func AllStats() []Stat {
	out := make([]Stat, StatCount)
	for i := range out {
		out[i] = Stat(i)
	}
	return out
}

// Stats 是按 Stat 下标存放的属性值。值类型，复制即快照。
type Stats [StatCount]int

func (s Stats) Get(k Stat) int { return s[k] }

// StatsFromMap 把 "STR" -> 12 这样的表转成 Stats，未知键报错。
func StatsFromMap(m map[string]int) (Stats, error) {
	var out Stats
	for k, v := range m {
		st, ok := ParseStat(k)
		if !ok {
			return Stats{}, fmt.Errorf("unknown stat %q", k)
		}
		out[st] = v
	}
	return out, nil
}

// StatModifiers 是职业倍率或装备加成，未列出的属性不受影响。
type StatModifiers map[Stat]float64

func ModifiersFromMap(m map[string]float64) (StatModifiers, error) {
	if len(m) == 0 {
		return nil, nil
	}
	out := make(StatModifiers, len(m))
	for k, v := range m {
		st, ok := ParseStat(k)
		if !ok {
			return nil, fmt.Errorf("unknown stat %q", k)
		}
		out[st] = v
	}
	return out, nil
}
