package verify

import (
	"fmt"
	"strings"
)

// 契約を破った入力と出力の組
// 再現のためにそのまま保持する
type Counterexample struct {
	Trial    int     // 何番目の試行か
	Sequence []int64 // 探索対象の列
	Target   int64   // ターゲット
	Index    int     // エンジンが返したインデックス
	Found    bool    // エンジンが返した判定
	Reason   string  // 破られた契約の説明
}

func (ce *Counterexample) String() string {
	outcome := "NotFound"
	if ce.Found {
		outcome = fmt.Sprintf("Found(%d)", ce.Index)
	}
	return fmt.Sprintf("trial %d: sequence=%v target=%d outcome=%s: %s",
		ce.Trial, ce.Sequence, ce.Target, outcome, ce.Reason)
}

// ======================================================================

// 検証結果のレポート
type Report struct {
	RunID          string          // 実行の識別子
	Trials         int             // 実行した試行の総数（境界ストレス試行を含む）
	Passed         int             // 合格数
	Failed         int             // 不合格数
	Counterexample *Counterexample // 最初の反例（不合格が無ければnil）
}

func (r *Report) OK() bool {
	return r.Failed == 0
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s: %d trials, %d passed, %d failed\n", r.RunID, r.Trials, r.Passed, r.Failed)
	if r.Counterexample != nil {
		fmt.Fprintf(&b, "counterexample: %s\n", r.Counterexample)
	}
	return b.String()
}
