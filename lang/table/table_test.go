package table_test

import (
	"testing"

	"github.com/mna/lockhart/lang/table"
	"github.com/mna/lockhart/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) *value.ObjString { return value.NewObjString(s) }

func TestSetGetDelete(t *testing.T) {
	tb := table.New()
	a := key("a")

	isNew := tb.Set(a, value.Number(1))
	assert.True(t, isNew)
	assert.Equal(t, 1, tb.Count())

	v, ok := tb.Get(a)
	require.True(t, ok)
	assert.Equal(t, value.Number(1), v)

	isNew = tb.Set(a, value.Number(2))
	assert.False(t, isNew)
	assert.Equal(t, 1, tb.Count())

	ok = tb.Delete(a)
	assert.True(t, ok)
	assert.Equal(t, 0, tb.Count())

	_, ok = tb.Get(a)
	assert.False(t, ok)
}

func TestTombstoneDoesNotBreakProbeChain(t *testing.T) {
	tb := table.New()

	// Build several keys and delete one in the middle of the table, then
	// confirm the others remain reachable (tombstones must not look like a
	// true miss to the probe sequence).
	keys := make([]*value.ObjString, 0, 20)
	for i := 0; i < 20; i++ {
		k := key(string(rune('a' + i)))
		keys = append(keys, k)
		tb.Set(k, value.Number(float64(i)))
	}

	assert.True(t, tb.Delete(keys[5]))

	for i, k := range keys {
		if i == 5 {
			_, ok := tb.Get(k)
			assert.False(t, ok)
			continue
		}
		v, ok := tb.Get(k)
		require.True(t, ok, "key %d", i)
		assert.Equal(t, value.Number(float64(i)), v)
	}
}

func TestGrowthRehashesLiveEntriesOnly(t *testing.T) {
	tb := table.New()
	var keys []*value.ObjString
	for i := 0; i < 10; i++ {
		k := key(string(rune('a' + i)))
		keys = append(keys, k)
		tb.Set(k, value.Number(float64(i)))
	}
	tb.Delete(keys[0])
	tb.Delete(keys[1])

	// Force growth with more insertions.
	for i := 10; i < 30; i++ {
		k := key(string(rune('A' + i)))
		tb.Set(k, value.Number(float64(i)))
	}

	assert.Equal(t, 28, tb.Count())
	_, ok := tb.Get(keys[0])
	assert.False(t, ok)
}

func TestFindStringByContent(t *testing.T) {
	tb := table.New()
	s := key("hello")
	tb.Set(s, value.Nil)

	found := tb.FindString("hello", value.FNV1a("hello"))
	require.NotNil(t, found)
	assert.Same(t, s, found)

	assert.Nil(t, tb.FindString("nope", value.FNV1a("nope")))
}

func TestSetNewKeyAfterTombstoneReuse(t *testing.T) {
	tb := table.New()
	a, b := key("a"), key("b")
	tb.Set(a, value.Number(1))
	tb.Delete(a)

	isNew := tb.Set(b, value.Number(2))
	assert.True(t, isNew)
}
