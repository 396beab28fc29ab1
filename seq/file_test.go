package seq_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yuya-isaka/chibiproof/bsearch"
	"github.com/yuya-isaka/chibiproof/seq"
)

func TestFile_CreateAndRead(t *testing.T) {

	// 準備
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "testfile")

	// 要素ページ3枚にまたがる整列済みの列
	elems := make([]int64, 1500)
	for i := range elems {
		elems[i] = int64(i * 2)
	}
	assert.NoError(seq.CreateFile(path, elems))

	// キャッシュを2ページに絞って、クロックスイープを必ず通す
	f, err := seq.OpenFile(path, 2)
	assert.NoError(err)
	defer f.Close()

	assert.Equal(1500, f.Len())

	// ======================================================================

	// 全要素の読み出し（ページ境界をまたぐ往復でキャッシュを入れ替えさせる）
	for i := 0; i < f.Len(); i++ {
		assert.Equal(elems[i], f.At(i))
		assert.Equal(elems[f.Len()-1-i], f.At(f.Len()-1-i))
	}

	// ======================================================================

	// ファイル上の列に対する二分探索
	result := bsearch.FindSeq[int64](f, 1000)
	assert.True(result.Found())
	assert.Equal(500, result.Index())

	result = bsearch.FindSeq[int64](f, 999)
	assert.False(result.Found())
}

func TestFile_Empty(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "testfile")

	assert.NoError(seq.CreateFile(path, nil))

	f, err := seq.OpenFile(path, 4)
	assert.NoError(err)
	defer f.Close()

	assert.Equal(0, f.Len())
	assert.False(bsearch.FindSeq[int64](f, 1).Found())
}

func TestFile_ReadAtOutOfRange(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "testfile")

	assert.NoError(seq.CreateFile(path, []int64{1, 2, 3}))

	f, err := seq.OpenFile(path, 4)
	assert.NoError(err)
	defer f.Close()

	_, err = f.ReadAt(3)
	assert.Error(err)
	_, err = f.ReadAt(-1)
	assert.Error(err)

	assert.Panics(func() { f.At(3) })
}

func TestOpenFile_Invalid(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	t.Run("Missing", func(t *testing.T) {
		_, err := seq.OpenFile(filepath.Join(dir, "missing"), 4)
		assert.Error(err)
	})

	t.Run("TruncatedFile", func(t *testing.T) {
		path := filepath.Join(dir, "truncated")
		assert.NoError(os.WriteFile(path, make([]byte, 100), 0755))
		_, err := seq.OpenFile(path, 4)
		assert.Error(err)
	})

	t.Run("CountBeyondFile", func(t *testing.T) {
		// メタページの要素数がファイルの容量を超えている
		path := filepath.Join(dir, "overcount")
		page := make([]byte, seq.PageSize)
		page[0] = 0xFF
		page[1] = 0xFF
		assert.NoError(os.WriteFile(path, page, 0755))
		_, err := seq.OpenFile(path, 4)
		assert.Error(err)
	})

	t.Run("CountHighBitSet", func(t *testing.T) {
		// 上位ビットが立った要素数（intに変換すると負になる値）
		path := filepath.Join(dir, "highbit")
		page := make([]byte, seq.PageSize)
		page[7] = 0x80 // リトルエンディアンで 1<<63
		assert.NoError(os.WriteFile(path, page, 0755))
		_, err := seq.OpenFile(path, 4)
		assert.Error(err)
	})
}
