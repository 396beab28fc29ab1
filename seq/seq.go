package seq

import "cmp"

// 有限でランダムアクセス可能な読み取り専用の列
// 探索エンジンは列を変更せず、呼び出しを超えて保持もしない
type Sequence[T any] interface {
	Len() int
	At(i int) T
}

// ======================================================================

// メモリ上のスライスをSequenceとして扱うアダプタ
type Slice[T any] []T

func (s Slice[T]) Len() int   { return len(s) }
func (s Slice[T]) At(i int) T { return s[i] }

// ======================================================================

// 広義単調増加（重複を許す）かどうかの判定
// 探索エンジンの事前条件を実行可能な形にしたもの、O(N)
func IsSorted[T cmp.Ordered](s Sequence[T]) bool {
	for i := 0; i+1 < s.Len(); i++ {
		if s.At(i) > s.At(i+1) {
			return false
		}
	}
	return true
}

func IsSortedSlice[T cmp.Ordered](s []T) bool {
	return IsSorted[T](Slice[T](s))
}
