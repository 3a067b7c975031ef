package domain

import (
	"fmt"
	"strings"
)

// GrowthRate 是成长档位，每升一级按档位倍率累加属性。
type GrowthRate string

const (
	GrowthD  GrowthRate = "D"
	GrowthC  GrowthRate = "C"
	GrowthB  GrowthRate = "B"
	GrowthA  GrowthRate = "A"
	GrowthS  GrowthRate = "S"
	GrowthSS GrowthRate = "SS"
)

var growthMultipliers = map[GrowthRate]float64{
	GrowthD:  0.5,
	GrowthC:  0.66,
	GrowthB:  1.0,
	GrowthA:  1.33,
	GrowthS:  1.5,
	GrowthSS: 2.0,
}

// Multiplier 未知档位返回 0,false。
func (g GrowthRate) Multiplier() (float64, bool) {
	m, ok := growthMultipliers[g]
	return m, ok
}

func ParseGrowthRate(s string) (GrowthRate, error) {
	g := GrowthRate(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := growthMultipliers[g]; !ok {
		return "", fmt.Errorf("unknown growth rate %q", s)
	}
	return g, nil
}

// GrowthTable 是一张卡上每项属性的成长档位，缺省的属性不成长。
type GrowthTable map[Stat]GrowthRate

func GrowthFromMap(m map[string]string) (GrowthTable, error) {
	if len(m) == 0 {
		return nil, nil
	}
	out := make(GrowthTable, len(m))
	for k, v := range m {
		st, ok := ParseStat(k)
		if !ok {
			return nil, fmt.Errorf("unknown stat %q", k)
		}
		g, err := ParseGrowthRate(v)
		if err != nil {
			return nil, err
		}
		out[st] = g
	}
	return out, nil
}
