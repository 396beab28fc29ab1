package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yuya-isaka/chibiproof/bsearch"
	"github.com/yuya-isaka/chibiproof/seq"
	"github.com/yuya-isaka/chibiproof/verify"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:           "chibiproof",
		Short:         "bounds-safe binary search with an executable contract checker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSearchCmd(), newVerifyCmd(), newPackCmd())

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// ======================================================================

func newSearchCmd() *cobra.Command {
	var target int64
	var file string

	cmd := &cobra.Command{
		Use:   "search -t target [values...]",
		Short: "search a sorted sequence and print the outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result bsearch.Result

			if file != "" {
				f, err := seq.OpenFile(file, 16)
				if err != nil {
					return err
				}
				defer f.Close()
				result, err = bsearch.FindSeqChecked[int64](f, target)
				if err != nil {
					return err
				}
			} else {
				elems, err := parseInts(args)
				if err != nil {
					return err
				}
				result, err = bsearch.FindChecked(elems, target)
				if err != nil {
					return err
				}
			}

			if result.Found() {
				fmt.Printf("found %d at index %d\n", target, result.Index())
			} else {
				fmt.Printf("%d not found\n", target)
			}
			return nil
		},
	}

	cmd.Flags().Int64VarP(&target, "target", "t", 0, "value to search for")
	cmd.Flags().StringVar(&file, "file", "", "search a packed sequence file instead of arguments")
	cmd.MarkFlagRequired("target")
	return cmd
}

// ======================================================================

// YAMLの設定ファイル
// フラグが指定されていればそちらが勝つ
type verifyConfig struct {
	Trials  int    `yaml:"trials"`
	MaxLen  int    `yaml:"max_len"`
	Seed    uint64 `yaml:"seed"`
	Workers int    `yaml:"workers"`
}

func newVerifyCmd() *cobra.Command {
	var configPath string
	cfg := verifyConfig{Trials: 1000, MaxLen: 64}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "run the property-based contract verifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				data, err := os.ReadFile(configPath)
				if err != nil {
					return err
				}
				fileCfg := cfg
				if err := yaml.Unmarshal(data, &fileCfg); err != nil {
					return fmt.Errorf("failed to parse config %s: %w", configPath, err)
				}
				// ファイルの値を下敷きにして、明示されたフラグで上書き
				if !cmd.Flags().Changed("trials") {
					cfg.Trials = fileCfg.Trials
				}
				if !cmd.Flags().Changed("max-len") {
					cfg.MaxLen = fileCfg.MaxLen
				}
				if !cmd.Flags().Changed("seed") {
					cfg.Seed = fileCfg.Seed
				}
				if !cmd.Flags().Changed("workers") {
					cfg.Workers = fileCfg.Workers
				}
			}

			report, err := verify.Run(verify.Config{
				Trials:  cfg.Trials,
				MaxLen:  cfg.MaxLen,
				Seed:    cfg.Seed,
				Workers: cfg.Workers,
			})
			if err != nil {
				return err
			}

			fmt.Print(report)
			if !report.OK() {
				return fmt.Errorf("%d of %d trials failed", report.Failed, report.Trials)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.Trials, "trials", cfg.Trials, "number of randomized trials")
	cmd.Flags().IntVar(&cfg.MaxLen, "max-len", cfg.MaxLen, "maximum generated sequence length")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 0, "random seed for reproducible runs")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 0, "parallel workers (0 = default)")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	return cmd
}

// ======================================================================

func newPackCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "pack -o file [values...]",
		Short: "write a sorted sequence to a packed file for later searching",
		RunE: func(cmd *cobra.Command, args []string) error {
			elems, err := parseInts(args)
			if err != nil {
				return err
			}
			if !seq.IsSortedSlice(elems) {
				return bsearch.ErrUnsorted
			}
			if err := seq.CreateFile(out, elems); err != nil {
				return err
			}
			fmt.Printf("packed %d elements into %s\n", len(elems), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file path")
	cmd.MarkFlagRequired("out")
	return cmd
}

func parseInts(args []string) ([]int64, error) {
	elems := make([]int64, 0, len(args))
	for _, arg := range args {
		v, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", arg, err)
		}
		elems = append(elems, v)
	}
	return elems, nil
}
