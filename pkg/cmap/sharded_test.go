package cmap

import (
	"fmt"
	"sync"
	"testing"
)

func TestMapBasicOperations(t *testing.T) {
	m := New[int]()

	t.Run("set and get", func(t *testing.T) {
		m.Set("a", 1)
		if v, ok := m.Get("a"); !ok || v != 1 {
			t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		if _, ok := m.Get("missing"); ok {
			t.Error("Get(missing) reported present")
		}
	})

	t.Run("delete", func(t *testing.T) {
		m.Set("b", 2)
		m.Delete("b")
		if _, ok := m.Get("b"); ok {
			t.Error("key survived Delete")
		}
	})

	t.Run("pop", func(t *testing.T) {
		m.Set("c", 3)
		if v, ok := m.Pop("c"); !ok || v != 3 {
			t.Errorf("Pop(c) = %d, %v; want 3, true", v, ok)
		}
		if _, ok := m.Pop("c"); ok {
			t.Error("second Pop reported present")
		}
	})
}

func TestMapSetIfAbsent(t *testing.T) {
	m := New[string]()

	if !m.SetIfAbsent("k", "first") {
		t.Error("SetIfAbsent on empty key returned false")
	}
	if m.SetIfAbsent("k", "second") {
		t.Error("SetIfAbsent overwrote an existing key")
	}
	if v, _ := m.Get("k"); v != "first" {
		t.Errorf("value = %q, want %q", v, "first")
	}
}

func TestMapReplace(t *testing.T) {
	m := New[int]()

	if m.Replace("k", 1, nil) {
		t.Error("Replace created a missing key")
	}

	m.Set("k", 1)
	if !m.Replace("k", 2, nil) {
		t.Error("unconditional Replace failed on existing key")
	}
	if !m.Replace("k", 3, func(cur int) bool { return cur == 2 }) {
		t.Error("conditional Replace failed with satisfied condition")
	}
	if m.Replace("k", 4, func(cur int) bool { return cur == 2 }) {
		t.Error("conditional Replace succeeded with failed condition")
	}
	if v, _ := m.Get("k"); v != 3 {
		t.Errorf("value = %d, want 3", v)
	}
}

func TestMapCountAndClear(t *testing.T) {
	m := NewWithShards[int](8)
	for i := 0; i < 100; i++ {
		m.Set(fmt.Sprintf("key-%d", i), i)
	}
	if m.Count() != 100 {
		t.Errorf("Count = %d, want 100", m.Count())
	}

	m.Clear()
	if m.Count() != 0 {
		t.Errorf("Count after Clear = %d, want 0", m.Count())
	}
}

func TestMapRange(t *testing.T) {
	m := New[int]()
	for i := 0; i < 10; i++ {
		m.Set(fmt.Sprintf("key-%d", i), i)
	}

	t.Run("full iteration", func(t *testing.T) {
		seen := 0
		m.Range(func(string, int) bool {
			seen++
			return true
		})
		if seen != 10 {
			t.Errorf("Range visited %d items, want 10", seen)
		}
	})

	t.Run("early stop", func(t *testing.T) {
		seen := 0
		m.Range(func(string, int) bool {
			seen++
			return false
		})
		if seen != 1 {
			t.Errorf("Range visited %d items after stop, want 1", seen)
		}
	})

	t.Run("keys", func(t *testing.T) {
		if got := len(m.Keys()); got != 10 {
			t.Errorf("Keys returned %d entries, want 10", got)
		}
	})
}

func TestMapInvalidShardCount(t *testing.T) {
	for _, n := range []int{0, -1, 3, 17} {
		m := NewWithShards[int](n)
		if m.shardMask+1 != DefaultShardCount {
			t.Errorf("shard count for %d = %d, want default %d", n, m.shardMask+1, DefaultShardCount)
		}
	}
}

func TestMapConcurrency(t *testing.T) {
	m := New[int]()
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("key-%d-%d", g, i)
				m.Set(key, i)
				m.Get(key)
				if i%3 == 0 {
					m.Delete(key)
				}
			}
		}(g)
	}
	wg.Wait()
}
