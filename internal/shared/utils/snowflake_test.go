package utils

import (
	"strings"
	"testing"
)

func TestNewSnowflake_节点越界(t *testing.T) {
	for _, node := range []int64{-1, maxNodeID + 1} {
		if _, err := NewSnowflake(node); err == nil {
			t.Fatalf("node %d should be rejected", node)
		}
	}
}

func TestSnowflake_时钟回拨仍单调递增(t *testing.T) {
	ticks := []int64{snowflakeEpochMilli + 10, snowflakeEpochMilli + 10, snowflakeEpochMilli + 5, snowflakeEpochMilli + 11}
	i := 0
	s, err := NewSnowflake(3, WithMilliClock(func() int64 {
		ts := ticks[min(i, len(ticks)-1)]
		i++
		return ts
	}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var last int64
	for n := 0; n < 4; n++ {
		id := s.NextID()
		if id <= last {
			t.Fatalf("id %d not greater than %d", id, last)
		}
		if (id>>nodeShift)&maxNodeID != 3 {
			t.Fatalf("node bits lost: %d", id)
		}
		last = id
	}
}

func TestSnowflake_Next带前缀(t *testing.T) {
	s, _ := NewSnowflake(1)
	a, b := s.Next("u"), s.Next("u")
	if !strings.HasPrefix(a, "u-") || a == b {
		t.Fatalf("a=%s b=%s", a, b)
	}
	if strings.Contains(s.Next(""), "-") {
		t.Fatalf("空前缀不应带分隔符")
	}
}
