package verify

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yuya-isaka/chibiproof/bsearch"
	"github.com/yuya-isaka/chibiproof/order"
	"github.com/yuya-isaka/chibiproof/seq"
)

// ワーカー数の既定値
// 試行と乱数列の対応はワーカー数で決まるため、マシンのCPU数ではなく固定値にする
// （Seedだけ控えておけばどこでも再現できる）
const defaultWorkers = 4

// 検証の実行設定
// Seedを固定すれば結果は実行のたびに再現できる
type Config struct {
	Trials  int          // ランダム試行の回数
	MaxLen  int          // 生成する列の最大長
	Seed    uint64       // 乱数シード
	Workers int          // 並列ワーカー数（0なら既定値）
	Logger  *slog.Logger // 反例の記録先（nilならデフォルト）
}

func (c *Config) fill() {
	if c.Trials <= 0 {
		c.Trials = 1000
	}
	if c.MaxLen < 0 {
		c.MaxLen = 0
	}
	if c.MaxLen == 0 {
		c.MaxLen = 64
	}
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// ======================================================================

// 検証の実行
//
// 各試行で広義単調増加のランダム列とターゲットを生成してエンジンを呼び、
//   - Found(i) なら i が範囲内かつ sequence[i] == target
//   - NotFound なら線形走査（エンジン自身では検査しない）でターゲットが不在
//   - 全反復で「窓の外にターゲットは無い」不変条件
// を検査する。加えて毎回、インデックス上限近くまで窓を広げた仮想列で
// 中点計算があふれないことを1試行分確認する。
//
// 最初の反例は破棄せずReportに保持し、ログにも出力する
func Run(cfg Config) (*Report, error) {
	cfg.fill()

	report := &Report{
		RunID: uuid.NewString(),
	}

	// 境界ストレス試行
	// Trialsは実際に実行した数（この試行を含む）だけを数える
	if ce := stressTrial(); ce != nil {
		report.Failed++
		report.Trials = report.Passed + report.Failed
		report.Counterexample = ce
		logCounterexample(cfg.Logger, report.RunID, ce)
		return report, nil
	}
	report.Passed++

	// ワーカーごとの集計
	// 共有カウンタは持たず、最後に一点で合流させる
	tallies := make([]tally, cfg.Workers)

	var eg errgroup.Group
	for w := 0; w < cfg.Workers; w++ {
		w := w
		eg.Go(func() error {
			// シードとワーカー番号から決定的に乱数列を導出する
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(w)))
			for trial := w; trial < cfg.Trials; trial += cfg.Workers {
				if ce := runTrial(rng, cfg.MaxLen); ce != nil {
					ce.Trial = trial
					if tallies[w].first == nil {
						tallies[w].first = ce
					}
					tallies[w].failed++
				} else {
					tallies[w].passed++
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for _, ta := range tallies {
		report.Passed += ta.passed
		report.Failed += ta.failed
		if ta.first != nil {
			if report.Counterexample == nil || ta.first.Trial < report.Counterexample.Trial {
				report.Counterexample = ta.first
			}
		}
	}
	report.Trials = report.Passed + report.Failed

	if report.Counterexample != nil {
		logCounterexample(cfg.Logger, report.RunID, report.Counterexample)
	}

	return report, nil
}

type tally struct {
	passed int
	failed int
	first  *Counterexample
}

func logCounterexample(logger *slog.Logger, runID string, ce *Counterexample) {
	logger.Error("contract violated",
		"run_id", runID,
		"trial", ce.Trial,
		"reason", ce.Reason,
		"sequence", ce.Sequence,
		"target", ce.Target,
		"found", ce.Found,
		"index", ce.Index,
	)
}

// ======================================================================

// 1試行の実行
// 契約が守られていればnil、破られていれば反例を返す
func runTrial(rng *rand.Rand, maxLen int) *Counterexample {
	s := genSorted(rng, maxLen)
	target := genTarget(rng, s)

	// 生成器の自己検査
	// （未整列の入力で以降の検査をしても意味がない）
	if !seq.IsSortedSlice(s) {
		return &Counterexample{
			Sequence: s,
			Target:   target,
			Reason:   "generator produced an unsorted sequence",
		}
	}

	// 窓の不変条件を観測しながら探索
	invariant := ""
	index, found := bsearch.SearchTraced(len(s), func(i int) order.Ordering {
		return order.Compare(s[i], target)
	}, func(left, right int) {
		if invariant != "" {
			return
		}
		for i := 0; i < left; i++ {
			if s[i] >= target {
				invariant = fmt.Sprintf("index %d left of the window holds %d >= target", i, s[i])
				return
			}
		}
		for i := right + 1; i < len(s); i++ {
			if s[i] <= target {
				invariant = fmt.Sprintf("index %d right of the window holds %d <= target", i, s[i])
				return
			}
		}
	})
	if invariant != "" {
		return &Counterexample{
			Sequence: s,
			Target:   target,
			Index:    index,
			Found:    found,
			Reason:   invariant,
		}
	}

	// 事後条件の検査
	if found {
		if index < 0 || index >= len(s) {
			return &Counterexample{
				Sequence: s,
				Target:   target,
				Index:    index,
				Found:    found,
				Reason:   "found index out of range",
			}
		}
		if s[index] != target {
			return &Counterexample{
				Sequence: s,
				Target:   target,
				Index:    index,
				Found:    found,
				Reason:   fmt.Sprintf("found index holds %d, not the target", s[index]),
			}
		}
		return nil
	}

	// 不在の確認は線形走査のオラクルで行う
	// （二分探索で二分探索を検査しない）
	for i, v := range s {
		if v == target {
			return &Counterexample{
				Sequence: s,
				Target:   target,
				Index:    index,
				Found:    found,
				Reason:   fmt.Sprintf("reported NotFound but target occurs at index %d", i),
			}
		}
	}
	return nil
}

// 広義単調増加のランダム列の生成（重複を許す）
func genSorted(rng *rand.Rand, maxLen int) []int64 {
	n := rng.IntN(maxLen + 1)
	s := make([]int64, n)
	if n == 0 {
		return s
	}
	v := rng.Int64N(2001) - 1000
	for i := 0; i < n; i++ {
		s[i] = v
		v += rng.Int64N(4) // 0なら重複
	}
	return s
}

// ターゲットの生成
// 半々で列に存在する値と、存在するとは限らない値を選ぶ
func genTarget(rng *rand.Rand, s []int64) int64 {
	if len(s) > 0 && rng.IntN(2) == 0 {
		return s[rng.IntN(len(s))]
	}
	return rng.Int64N(4001) - 2000
}

// 境界ストレス試行
// 要素iの値がiそのものの仮想列をインデックス上限付近まで広げて探索し、
// 中点計算の加算あふれ（(left+right)/2なら即座に負へ折り返す）を検出する
func stressTrial() *Counterexample {
	size := math.MaxInt
	target := math.MaxInt - 1

	index, found := bsearch.Search(size, func(i int) order.Ordering {
		if i < 0 {
			// あふれた中点はここで負になって現れる
			return order.Greater
		}
		return order.Compare(i, target)
	})

	if !found || index != target {
		return &Counterexample{
			Target: int64(target),
			Index:  index,
			Found:  found,
			Reason: "midpoint stress search missed the target near the index maximum",
		}
	}
	return nil
}
