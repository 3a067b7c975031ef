package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type Coord struct {
	X int
	Y int
}

// Key 是坐标在棋盘表里的键，格式 "x,y"。
func (c Coord) Key() string {
	return strconv.Itoa(c.X) + "," + strconv.Itoa(c.Y)
}

func (c Coord) String() string { return c.Key() }

func ParseCoord(key string) (Coord, error) {
	xs, ys, ok := strings.Cut(key, ",")
	if !ok {
		return Coord{}, fmt.Errorf("invalid coord %q", key)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Coord{}, fmt.Errorf("invalid coord %q: %w", key, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Coord{}, fmt.Errorf("invalid coord %q: %w", key, err)
	}
	return Coord{X: x, Y: y}, nil
}

// Distance 是曼哈顿距离。
func Distance(a, b Coord) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Side 是领地归属，按座次区分。
type Side int

const (
	SideNeutral Side = iota
	SideFirst
	SideSecond
)

// BoardPosition 是一个格子，四层内容互相独立。
type BoardPosition struct {
	Coord             Coord
	Territory         Side
	Terrain           string
	Structure         CardID
	BlockingStructure CardID
	Unit              UnitID
	Walkable          bool
	// MoveCost 0 按 1 计
	MoveCost int
}

func (p BoardPosition) StepCost() int {
	if p.MoveCost <= 0 {
		return 1
	}
	return p.MoveCost
}

type Board struct {
	Width     int
	Height    int
	Positions map[string]*BoardPosition
}

// NewBoard 生成全可通行棋盘：y < rows 属于先手，y >= height-rows 属于后手。
func NewBoard(width, height, territoryRows int) Board {
	b := Board{Width: width, Height: height, Positions: make(map[string]*BoardPosition, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			side := SideNeutral
			switch {
			case y < territoryRows:
				side = SideFirst
			case y >= height-territoryRows:
				side = SideSecond
			}
			c := Coord{X: x, Y: y}
			b.Positions[c.Key()] = &BoardPosition{Coord: c, Territory: side, Terrain: "plain", Walkable: true, MoveCost: 1}
		}
	}
	return b
}

func (b Board) At(c Coord) (*BoardPosition, bool) {
	p, ok := b.Positions[c.Key()]
	return p, ok
}

func (b Board) Clone() Board {
	out := Board{Width: b.Width, Height: b.Height, Positions: make(map[string]*BoardPosition, len(b.Positions))}
	for k, p := range b.Positions {
		cp := *p
		out.Positions[k] = &cp
	}
	return out
}
