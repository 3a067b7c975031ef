// Package synthesis 由召唤卡、职业卡和装备卡推导场上单位的属性。
//
// 顺序固定：基础值 -> 等级成长 -> 职业倍率 -> 装备倍率（武器、副手、护甲、饰品），
// 每一步都向下取整。顺序变化会改变结果。
package synthesis

import (
	"math"

	"Skirmish/internal/rules/domain"
)

const (
	baseHP       = 50
	baseMovement = 2
)

// Input 是一次合成需要的全部卡牌数据，卡牌查找由调用方完成。
type Input struct {
	Base      domain.Stats
	Growth    domain.GrowthTable
	Level     int
	Role      *domain.RoleCard
	Equipment [domain.SlotCount]*domain.EquipmentCard
}

type Result struct {
	Stats    domain.Stats
	MaxHP    int
	Movement int
}

// Synthesize 是纯函数，相同输入总是得到相同结果。
func Synthesize(in Input) Result {
	stats := in.Base
	applyGrowth(&stats, in.Growth, in.Level)
	if in.Role != nil {
		applyMultipliers(&stats, in.Role.Modifiers)
	}
	for slot := domain.EquipSlot(0); slot < domain.SlotCount; slot++ {
		if eq := in.Equipment[slot]; eq != nil {
			applyMultipliers(&stats, eq.Bonuses)
		}
	}
	return Result{
		Stats:    stats,
		MaxHP:    MaxHP(stats[domain.END]),
		Movement: Movement(stats[domain.SPD]),
	}
}

func applyGrowth(stats *domain.Stats, growth domain.GrowthTable, level int) {
	if level <= 0 {
		return
	}
	for _, st := range domain.AllStats() {
		m, ok := growth[st].Multiplier()
		if !ok {
			continue
		}
		stats[st] += floor(float64(level) * m)
	}
}

// applyMultipliers 按属性顺序逐项相乘取整，未列出的属性按 1.0 处理。
func applyMultipliers(stats *domain.Stats, mods domain.StatModifiers) {
	for _, st := range domain.AllStats() {
		m, ok := mods[st]
		if !ok {
			continue
		}
		stats[st] = floor(float64(stats[st]) * m)
	}
}

// MaxHP = 50 + floor(END^1.5)，END 为负按 0 计。
func MaxHP(end int) int {
	if end < 0 {
		end = 0
	}
	return baseHP + floor(math.Pow(float64(end), 1.5))
}

// Movement = 2 + floor((SPD-10)/5)，最小为 0。
func Movement(spd int) int {
	m := baseMovement + floor(float64(spd-10)/5)
	if m < 0 {
		return 0
	}
	return m
}

// ScaleHP 按新旧上限等比缩放当前生命，保持受伤比例；
// 仍存活的单位至少保留 1 点生命。
func ScaleHP(current, oldMax, newMax int) int {
	if newMax <= 0 {
		return 0
	}
	if oldMax <= 0 || current >= oldMax {
		return newMax
	}
	if current <= 0 {
		return 0
	}
	hp := floor(float64(current) * float64(newMax) / float64(oldMax))
	if hp < 1 {
		hp = 1
	}
	if hp > newMax {
		hp = newMax
	}
	return hp
}

// floor 补偿 0.66 这类倍率的二进制误差，避免 3*1.0000000001 之类的抖动影响取整。
func floor(v float64) int {
	return int(math.Floor(v + 1e-9))
}
