package bsearch_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yuya-isaka/chibiproof/bsearch"
	"github.com/yuya-isaka/chibiproof/order"
)

func TestSearch(t *testing.T) {
	a := []uint16{1, 2, 3, 5, 8, 13, 21, 34, 55, 89}
	tests := []struct {
		target uint16
		expect int
		ok     bool
	}{
		{1, 0, true},
		{0, 0, false},
		{2, 1, true},
		{8, 4, true},
		{6, 4, false},
		{21, 6, true},
		{22, 7, false},
		{34, 7, true},
		{55, 8, true},
		{89, 9, true},
		{90, 10, false},
	}

	for _, test := range tests {
		index, ok := bsearch.Search(len(a), func(i int) order.Ordering {
			return order.Compare(a[i], test.target)
		})

		if test.ok {
			if !ok {
				t.Errorf("Expected to find target %d, but it was not found", test.target)
			}
		} else {
			if ok {
				t.Errorf("Expected not to find target %d, but it was found", test.target)
			}
		}

		if index != test.expect {
			t.Errorf("Expected index %d for target %d, but got %d", test.expect, test.target, index)
		}
	}
}

func TestFind(t *testing.T) {
	assert := assert.New(t)

	s := []int{1, 3, 5, 7, 9, 11, 13, 15, 17, 19}

	tests := []struct {
		name   string
		target int
		index  int
		found  bool
	}{
		{"Middle", 7, 3, true},
		{"Last", 19, 9, true},
		{"First", 1, 0, true},
		{"AbsentBetween", 10, -1, false},
		{"AbsentAbove", 20, -1, false},
		{"AbsentBelow", -5, -1, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := bsearch.Find(s, test.target)
			assert.Equal(test.found, result.Found())
			assert.Equal(test.index, result.Index())
		})
	}
}

func TestFind_Boundary(t *testing.T) {
	assert := assert.New(t)

	t.Run("Empty", func(t *testing.T) {
		result := bsearch.Find([]int{}, 42)
		assert.False(result.Found())
	})

	t.Run("SingleFound", func(t *testing.T) {
		result := bsearch.Find([]int{5}, 5)
		assert.True(result.Found())
		assert.Equal(0, result.Index())
	})

	t.Run("SingleNotFound", func(t *testing.T) {
		result := bsearch.Find([]int{5}, 3)
		assert.False(result.Found())
	})

	t.Run("Duplicates", func(t *testing.T) {
		s := []int{2, 2, 2, 2}
		result := bsearch.Find(s, 2)
		assert.True(result.Found())
		// 重複時にどの位置が返るかは規定しない
		assert.GreaterOrEqual(result.Index(), 0)
		assert.Less(result.Index(), len(s))
		assert.Equal(2, s[result.Index()])
	})

	t.Run("Strings", func(t *testing.T) {
		s := []string{"ant", "bee", "cat", "dog"}
		result := bsearch.Find(s, "cat")
		assert.True(result.Found())
		assert.Equal(2, result.Index())
	})
}

func TestFindBytes(t *testing.T) {
	assert := assert.New(t)

	s := [][]byte{[]byte("abc"), []byte("abd"), []byte("b"), []byte("ba")}

	tests := []struct {
		name   string
		target []byte
		index  int
		found  bool
	}{
		{"Middle", []byte("abd"), 1, true},
		{"First", []byte("abc"), 0, true},
		{"Last", []byte("ba"), 3, true},
		{"Prefix", []byte("ab"), -1, false},
		{"Absent", []byte("c"), -1, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := bsearch.FindBytes(s, test.target)
			assert.Equal(test.found, result.Found())
			assert.Equal(test.index, result.Index())
		})
	}
}

// 仮想的な巨大列（要素iの値はiそのもの）で中点計算があふれないことの確認
// (left+right)/2 を使っていればここで left+right が負に折り返して落ちる
func TestSearch_NoMidpointOverflow(t *testing.T) {
	assert := assert.New(t)

	size := math.MaxInt
	target := math.MaxInt - 1

	probes := 0
	index, ok := bsearch.Search(size, func(i int) order.Ordering {
		probes++
		return order.Compare(i, target)
	})

	assert.True(ok)
	assert.Equal(target, index)
	// O(log N)で停止していることの確認
	assert.LessOrEqual(probes, 64)
}

func TestSearchTraced_WindowInvariant(t *testing.T) {
	assert := assert.New(t)

	s := []int{1, 3, 5, 7, 9, 11, 13, 15, 17, 19}
	targets := []int{7, 19, 1, 10, 20, -5}

	for _, target := range targets {
		windows := 0
		bsearch.SearchTraced(len(s), func(i int) order.Ordering {
			return order.Compare(s[i], target)
		}, func(left, right int) {
			windows++
			// 窓の外にターゲットは無い
			for i := 0; i < left; i++ {
				assert.Less(s[i], target, "index %d escaped the window for target %d", i, target)
			}
			for i := right + 1; i < len(s); i++ {
				assert.Greater(s[i], target, "index %d escaped the window for target %d", i, target)
			}
		})
		assert.Greater(windows, 0)
	}
}

func TestFindChecked(t *testing.T) {
	assert := assert.New(t)

	t.Run("Sorted", func(t *testing.T) {
		result, err := bsearch.FindChecked([]int{1, 3, 5, 7}, 5)
		assert.NoError(err)
		assert.True(result.Found())
		assert.Equal(2, result.Index())
	})

	t.Run("Unsorted", func(t *testing.T) {
		_, err := bsearch.FindChecked([]int{3, 1, 5, 7}, 5)
		assert.ErrorIs(err, bsearch.ErrUnsorted)
	})

	t.Run("DuplicatesAreSorted", func(t *testing.T) {
		_, err := bsearch.FindChecked([]int{1, 1, 2, 2}, 2)
		assert.NoError(err)
	})
}
