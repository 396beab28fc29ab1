package seq

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	PageSize     = 4096                // 1ページのバイト数
	ElemSize     = 8                   // 1要素のバイト数（int64、リトルエンディアン）
	ElemsPerPage = PageSize / ElemSize // 1ページに収まる要素数
)

// ページIDを示す型
type PageID int64

const InvalidPageID = PageID(-1) // 無効なページID

// ======================================================================

// int64の列をページ単位でファイルに保持する読み取り専用のSequence
//
// レイアウト
//   ページ0          ... メタページ（要素数、8 bytes）
//   ページ1以降      ... 要素本体、1ページ512要素、末尾ページの余りはゼロ埋め
type File struct {
	mu     sync.Mutex // キャッシュ保護（読み取り専用の列なので排他はこれだけ）
	heap   *os.File   // ヒープファイルへのファイルポインタ
	length int        // 列の要素数
	cache  *cache     // ページキャッシュ
}

var _ Sequence[int64] = (*File)(nil)

// 要素列をファイルへ書き出す
// 列は呼び出し側で整列済みであること（ここでは検証しない）
func CreateFile(path string, elems []int64) error {
	heap, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_SYNC, 0755)
	if err != nil {
		return err
	}
	defer heap.Close()

	// メタページの書き込み
	meta := make([]byte, PageSize)
	binary.LittleEndian.PutUint64(meta, uint64(len(elems)))
	if err := writePage(heap, PageID(0), meta); err != nil {
		return err
	}

	// 要素ページの書き込み
	// 末尾ページの余りはゼロのまま（Lenを超えるオフセットは読まれない）
	buf := make([]byte, PageSize)
	for start := 0; start < len(elems); start += ElemsPerPage {
		for i := range buf {
			buf[i] = 0
		}
		end := start + ElemsPerPage
		if end > len(elems) {
			end = len(elems)
		}
		for i, v := range elems[start:end] {
			binary.LittleEndian.PutUint64(buf[i*ElemSize:], uint64(v))
		}
		if err := writePage(heap, PageID(1+start/ElemsPerPage), buf); err != nil {
			return err
		}
	}

	return nil
}

// 既存のファイルを開く
func OpenFile(path string, cacheSize int) (*File, error) {
	heap, err := os.OpenFile(path, os.O_RDONLY, 0755)
	if err != nil {
		return nil, err
	}

	// ファイルサイズのバリデーション
	info, err := heap.Stat()
	if err != nil {
		heap.Close()
		return nil, err
	}
	heapSize := info.Size()
	if heapSize == 0 || heapSize%PageSize != 0 {
		heap.Close()
		return nil, fmt.Errorf("invalid heap file size: got %d bytes, want a positive multiple of %d", heapSize, PageSize)
	}

	// メタページから要素数を取得
	meta := make([]byte, PageSize)
	if err := readPage(heap, PageID(0), meta); err != nil {
		heap.Close()
		return nil, err
	}
	count := binary.LittleEndian.Uint64(meta)

	// 要素数とファイルサイズの整合性チェック
	// intへ変換する前にuint64のまま比較する（上位ビットが立った値は負に折り返すため）
	elemPages := (heapSize - PageSize) / PageSize
	if count > uint64(elemPages)*ElemsPerPage {
		heap.Close()
		return nil, fmt.Errorf("invalid element count: got %d, file holds at most %d", count, elemPages*ElemsPerPage)
	}
	length := int(count)

	return &File{
		heap:   heap,
		length: length,
		cache:  newCache(cacheSize),
	}, nil
}

func (f *File) Close() error {
	return f.heap.Close()
}

func (f *File) Len() int {
	return f.length
}

// 指定インデックスの要素の取得
// インデックスは [0, Len) であること
// I/O失敗はSequenceの契約上返せないのでpanicになる（ReadAtを直接使えばerrorで受けられる）
func (f *File) At(i int) int64 {
	v, err := f.ReadAt(i)
	if err != nil {
		panic(err)
	}
	return v
}

func (f *File) ReadAt(i int) (int64, error) {
	if i < 0 || i >= f.length {
		return 0, fmt.Errorf("index out of range: got %d, want [0, %d)", i, f.length)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	pageID := PageID(1 + i/ElemsPerPage)
	frame, err := f.cache.fetch(pageID, func(id PageID, buf []byte) error {
		return readPage(f.heap, id, buf)
	})
	if err != nil {
		return 0, err
	}
	defer frame.unpin()

	offset := (i % ElemsPerPage) * ElemSize
	return int64(binary.LittleEndian.Uint64(frame.data[offset:])), nil
}

// ======================================================================

func seekPage(heap *os.File, pageID PageID) error {
	if pageID < 0 {
		return fmt.Errorf("invalid page id: got %d", pageID)
	}
	if _, err := heap.Seek(int64(pageID)*PageSize, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek page %d: %w", pageID, err)
	}
	return nil
}

func readPage(heap *os.File, pageID PageID, pageData []byte) error {
	if len(pageData) != PageSize {
		return fmt.Errorf("invalid page size: got %d bytes, want exactly %d", len(pageData), PageSize)
	}
	if err := seekPage(heap, pageID); err != nil {
		return err
	}
	n, err := heap.Read(pageData)
	if err != nil {
		return fmt.Errorf("failed to read page %d: %w", pageID, err)
	}
	if n != PageSize {
		return fmt.Errorf("failed to read page %d: got %d bytes", pageID, n)
	}
	return nil
}

func writePage(heap *os.File, pageID PageID, pageData []byte) error {
	if len(pageData) != PageSize {
		return fmt.Errorf("invalid page size: got %d bytes, want exactly %d", len(pageData), PageSize)
	}
	if err := seekPage(heap, pageID); err != nil {
		return err
	}
	n, err := heap.Write(pageData)
	if err != nil {
		return fmt.Errorf("failed to write page %d: %w", pageID, err)
	}
	if n != PageSize {
		return fmt.Errorf("failed to write page %d: wrote %d bytes", pageID, n)
	}
	return nil
}
