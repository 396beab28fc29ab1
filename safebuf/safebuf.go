package safebuf

import (
	"errors"
	"math"
)

var (
	ErrOutOfRange = errors.New("index out of range")          // 範囲外アクセス
	ErrTruncated  = errors.New("source truncated to fit")     // コピー元が収まらず切り詰めた
	ErrOverflow   = errors.New("size computation overflowed") // サイズ計算があふれた
)

// 範囲検査付きの要素書き込み
func Set(buf []byte, i int, v byte) error {
	if i < 0 || i >= len(buf) {
		return ErrOutOfRange
	}
	buf[i] = v
	return nil
}

// 上限付きコピー
// dstは必ずNUL終端され、srcが収まらない場合は書ける分だけ書いてErrTruncatedを返す
// 戻り値は終端を除いた書き込みバイト数
func Copy(dst, src []byte) (int, error) {
	if len(dst) == 0 {
		return 0, ErrOutOfRange
	}
	n := copy(dst[:len(dst)-1], src)
	dst[n] = 0
	if n < len(src) {
		return n, ErrTruncated
	}
	return n, nil
}

// バッファ全体を同じ値で埋める
// 埋めるのはちょうどlen(buf)バイト（境界の1バイト超過は構造上起こらない）
func Fill(buf []byte, v byte) int {
	for i := range buf {
		buf[i] = v
	}
	return len(buf)
}

// offsetぶんの左シフト
// 末尾のoffsetバイトはゼロ埋めし、古い内容を残さない
func Shift(buf []byte, offset int) error {
	if offset < 0 || offset > len(buf) {
		return ErrOutOfRange
	}
	n := copy(buf, buf[offset:])
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
	return nil
}

// あふれ検査付きのサイズ計算（count個 × sizeバイト）
// あふれて負に折り返した値で確保してしまう前にErrOverflowを返す
func Scale(count, size int) (int, error) {
	if count < 0 || size < 0 {
		return 0, ErrOutOfRange
	}
	if size != 0 && count > math.MaxInt/size {
		return 0, ErrOverflow
	}
	return count * size, nil
}
