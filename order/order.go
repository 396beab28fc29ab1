package order

import "cmp"

// 比較結果を示す型
// パッケージ外で勝手に値を作れないように封印する
type Ordering interface {
	orderProtected()
}

type ord int

func (o ord) orderProtected() {}

const (
	Less    ord = -1 // 左が小さい
	Equal   ord = 0  // 等しい
	Greater ord = 1  // 左が大きい
)

// ======================================================================

// 全順序が定義された型同士の比較
func Compare[T cmp.Ordered](a, b T) Ordering {
	if a < b {
		return Less
	}
	if a > b {
		return Greater
	}
	return Equal
}

// バイト列の辞書式比較
func CompareByteSlice(a, b []byte) Ordering {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] < b[i] {
			return Less
		}
		if a[i] > b[i] {
			return Greater
		}
	}

	// ここまで来た場合、共有されている要素は等しい
	if len(a) < len(b) {
		return Less
	}
	if len(a) > len(b) {
		return Greater
	}

	return Equal
}
