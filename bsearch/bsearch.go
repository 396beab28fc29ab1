package bsearch

import (
	"cmp"

	"github.com/yuya-isaka/chibiproof/order"
	"github.com/yuya-isaka/chibiproof/seq"
)

// 二分探索の結果を示す型
// Found(i) なら sequence[i] == target、NotFound なら target は列に存在しない
type Result struct {
	index int
	found bool
}

func FoundAt(i int) Result {
	return Result{index: i, found: true}
}

func NotFound() Result {
	return Result{index: -1, found: false}
}

func (r Result) Found() bool {
	return r.found
}

// 見つかった位置の取得
// Foundでない場合は-1
func (r Result) Index() int {
	return r.index
}

// ======================================================================

// サイズと比較クロージャによる二分探索
// fはインデックスiの要素とターゲットの比較結果を返すこと
// （要素 < ターゲット なら Less、要素 > ターゲット なら Greater）
//
// 窓は閉区間 [left, right] で、中点は left + (right-left)/2 で計算する
// (left+right)/2 は両端が表現上限に近いとき加算があふれるため使わない
// 窓幅 right-left は毎回真に減少するので必ず停止する
//
// 見つからなかった場合は挿入位置と false を返す
func Search(size int, f func(int) order.Ordering) (int, bool) {
	return SearchTraced(size, f, nil)
}

// Searchと同じだが、各反復の先頭で現在の窓をonWindowに通知する
// 呼び出し側はこれで「窓の外にターゲットは無い」不変条件を検査できる
// （left より左は全て Less、right より右は全て Greater）
func SearchTraced(size int, f func(int) order.Ordering, onWindow func(left, right int)) (int, bool) {
	left := 0
	right := size - 1
	for left <= right {
		if onWindow != nil {
			onWindow(left, right)
		}
		mid := left + (right-left)/2
		cmp := f(mid)
		if cmp == order.Less {
			left = mid + 1
		} else if cmp == order.Greater {
			right = mid - 1
		} else {
			return mid, true
		}
	}
	return left, false
}

// ======================================================================

// 整列済みスライスからターゲットを探索
//
// 事前条件: sは広義単調増加であること（ここでは検証しない、FindCheckedを参照）
// ターゲットと等しい要素が複数ある場合、どのインデックスが返るかは規定しない
func Find[T cmp.Ordered](s []T, target T) Result {
	return FindSeq[T](seq.Slice[T](s), target)
}

// 整列済みSequenceからターゲットを探索
func FindSeq[T cmp.Ordered](s seq.Sequence[T], target T) Result {
	index, ok := Search(s.Len(), func(i int) order.Ordering {
		return order.Compare(s.At(i), target)
	})
	if !ok {
		return NotFound()
	}
	return FoundAt(index)
}

// 辞書順に整列済みのバイト列スライスからターゲットを探索
// 比較はバイト単位の辞書式順序で行う
func FindBytes(s [][]byte, target []byte) Result {
	index, ok := Search(len(s), func(i int) order.Ordering {
		return order.CompareByteSlice(s[i], target)
	})
	if !ok {
		return NotFound()
	}
	return FoundAt(index)
}
