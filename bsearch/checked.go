package bsearch

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/yuya-isaka/chibiproof/seq"
)

// 事前条件違反（未整列の列）を示すエラー
var ErrUnsorted = errors.New("sequence is not sorted in ascending order")

// Findのデバッグ版
// 探索の前に整列済みかをO(N)で検証し、違反していれば黙って誤答せずにErrUnsortedを返す
// 最適化版のFindはこの検査を一切行わない
func FindChecked[T cmp.Ordered](s []T, target T) (Result, error) {
	return FindSeqChecked[T](seq.Slice[T](s), target)
}

// FindSeqのデバッグ版
func FindSeqChecked[T cmp.Ordered](s seq.Sequence[T], target T) (Result, error) {
	if !seq.IsSorted(s) {
		return NotFound(), fmt.Errorf("precondition violated: %w", ErrUnsorted)
	}
	return FindSeq(s, target), nil
}
