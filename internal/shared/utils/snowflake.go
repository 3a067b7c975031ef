package utils

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

const (
	// 2024-01-01 00:00:00 UTC，单位毫秒
	snowflakeEpochMilli int64 = 1704067200000

	nodeBits uint8 = 10
	seqBits  uint8 = 12

	maxNodeID int64 = -1 ^ (-1 << nodeBits)
	maxSeq    int64 = -1 ^ (-1 << seqBits)

	nodeShift uint8 = seqBits
	timeShift uint8 = nodeBits + seqBits
)

// Snowflake 生成进程内单调递增的 id，场上单位 id 由它分配。
type Snowflake struct {
	mu     sync.Mutex
	nodeID int64
	lastTS int64
	seq    int64
	now    func() int64
}

type SnowflakeOption func(*Snowflake)

// WithMilliClock 替换毫秒时钟，测试用。
func WithMilliClock(now func() int64) SnowflakeOption {
	return func(s *Snowflake) { s.now = now }
}

func NewSnowflake(nodeID int64, opts ...SnowflakeOption) (*Snowflake, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("snowflake node id out of range: %d", nodeID)
	}
	s := &Snowflake{nodeID: nodeID, now: func() int64 { return time.Now().UnixMilli() }}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now()
	if ts < s.lastTS {
		// 时钟回拨时不回退，保持单调递增。
		ts = s.lastTS
	}

	if ts == s.lastTS {
		s.seq = (s.seq + 1) & maxSeq
		if s.seq == 0 {
			ts = s.waitNext(s.lastTS)
		}
	} else {
		s.seq = 0
	}

	s.lastTS = ts
	return ((ts - snowflakeEpochMilli) << timeShift) | (s.nodeID << nodeShift) | s.seq
}

// Next 返回带前缀的 36 进制字符串 id，例如 "u-3f9k2..."。
func (s *Snowflake) Next(prefix string) string {
	id := strconv.FormatInt(s.NextID(), 36)
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

func (s *Snowflake) waitNext(lastTS int64) int64 {
	ts := s.now()
	for ts <= lastTS {
		ts = s.now()
	}
	return ts
}
