package seq

import "errors"

const (
	invalidFrameIndex = frameIndex(-1) // 無効なフレームインデックス
	noReferencePin    = pin(0)         // ピンがない状態
)

// キャッシュ内のフレーム位置を示す型
type frameIndex int64

// フレームの参照カウントを示す型
type pin int64

// ======================================================================

// キャッシュ上の1ページを表す構造体
// 列は読み取り専用なので更新フラグは持たない
type frame struct {
	id   PageID // ページの一意なID
	data []byte // ページのデータ内容
	pin  pin    // フレームの参照数
}

// フレーム情報のリセット
func (fr *frame) reset() {
	fr.id = InvalidPageID
	fr.data = make([]byte, PageSize)
	fr.pin = noReferencePin
}

func (fr *frame) addPin() {
	fr.pin++
}

func (fr *frame) unpin() {
	fr.pin--
}

// ======================================================================

// 複数のページをバッファするメモリキャッシュ
type cache struct {
	frames        []frame               // キャッシュ内の全フレーム
	table         map[PageID]frameIndex // ページIDとフレームインデックスをマッピングするテーブル
	nextKickIndex frameIndex            // 次にキャッシュから削除するフレームのインデックス
}

// 指定されたサイズの新しいキャッシュの作成
func newCache(size int) *cache {
	if size < 1 {
		size = 1
	}

	// 一定数のフレームを持つキャッシュを作成し、各フレームを初期化
	frames := make([]frame, size)
	for i := 0; i < size; i++ {
		frames[i].reset()
	}

	return &cache{
		frames:        frames,
		table:         make(map[PageID]frameIndex),
		nextKickIndex: frameIndex(0),
	}
}

func (c *cache) getFrame(index frameIndex) *frame {
	return &c.frames[index]
}

// クロックスイープアルゴリズム: キャッシュからフレームを削除するインデックスの探索
func (c *cache) clockSweep() (frameIndex, error) {
	frameNum := len(c.frames) // キャッシュ内のフレーム数
	checkedFrameNum := 0      // チェックしたフレーム数

	// ピンされていないフレームを見つけるか、全フレームをチェックするまでループ
	for {
		nextKickIndex := c.nextKickIndex
		fr := c.getFrame(nextKickIndex)

		if fr.pin == noReferencePin {
			return nextKickIndex, nil
		}

		checkedFrameNum++
		if checkedFrameNum >= frameNum {
			return invalidFrameIndex, errors.New("all frames are pinned")
		}

		// 次のチェックするインデックスの準備
		c.nextKickIndex = (c.nextKickIndex + 1) % frameIndex(frameNum)
	}
}

// 指定ページIDのフレームを取得
// キャッシュに無ければreadで読み込み、クロックスイープで空けた場所に載せる
// 返されたフレームはピン済みであり、使用後にunpinすること
func (c *cache) fetch(id PageID, read func(id PageID, buf []byte) error) (*frame, error) {

	// テーブルにページIDのフレームが存在するか確認
	if index, ok := c.table[id]; ok {
		fr := c.getFrame(index)
		fr.addPin()
		return fr, nil
	}

	// 使用可能なフレームインデックスを探索
	index, err := c.clockSweep()
	if err != nil {
		return nil, err
	}

	// 元のページがテーブルに登録されていれば、登録を削除
	fr := c.getFrame(index)
	delete(c.table, fr.id)

	// ファイルからページデータの読み込み
	if err := read(id, fr.data); err != nil {
		fr.reset()
		return nil, err
	}

	fr.id = id
	fr.pin = pin(1)
	c.table[id] = index
	return fr, nil
}
