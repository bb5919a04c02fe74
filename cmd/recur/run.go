package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/on-the-ground/memo_ive_go/effects"
	"github.com/on-the-ground/memo_ive_go/effects/concurrency"
	"github.com/on-the-ground/memo_ive_go/effects/log"
	"github.com/on-the-ground/memo_ive_go/effects/recurrence"
	"github.com/on-the-ground/memo_ive_go/internal/config"
	"github.com/on-the-ground/memo_ive_go/pure"
	"github.com/on-the-ground/memo_ive_go/tables"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitInvalid = 2
)

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("recur", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitInvalid
	}

	if list, _ := fs.GetBool(config.FlagList); list {
		for _, name := range pure.DefinitionNames() {
			fmt.Fprintln(stdout, name)
		}
		return exitOK
	}

	configPath, _ := fs.GetString(config.FlagConfig)
	cfg, err := config.LoadConfig(configPath, fs)
	if err != nil {
		fmt.Fprintln(stderr, "recur:", err)
		return exitFailure
	}

	indices, err := readIndices(fs.Args(), stdin)
	if err != nil {
		fmt.Fprintln(stderr, "recur:", err)
		return exitInvalid
	}
	if len(indices) == 0 {
		fmt.Fprintln(stderr, "recur: no index given")
		return exitInvalid
	}

	logger := newLogger(cfg, stderr)
	defer logger.Sync() //nolint:errcheck
	defer effects.SetLogger(effects.SetLogger(logger))

	values, err := evaluate(context.Background(), cfg, logger, indices)
	if err != nil {
		fmt.Fprintln(stderr, "recur:", err)
		if errors.Is(err, pure.ErrInvalidIndex) {
			return exitInvalid
		}
		return exitFailure
	}

	if len(values) == 1 {
		fmt.Fprintln(stdout, values[0])
		return exitOK
	}
	for i, v := range values {
		fmt.Fprintf(stdout, "%s(%d) = %s\n", cfg.Recurrence.Name, indices[i], v)
	}
	return exitOK
}

// readIndices parses positional arguments, or stdin when there are none.
func readIndices(args []string, stdin io.Reader) ([]int, error) {
	tokens := args
	if len(tokens) == 0 {
		scanner := bufio.NewScanner(stdin)
		scanner.Split(bufio.ScanWords)
		for scanner.Scan() {
			tokens = append(tokens, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	}

	indices := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := pure.IndexOf(strings.TrimSpace(tok))
		if err != nil {
			return nil, err
		}
		indices = append(indices, n)
	}
	return indices, nil
}

func newLogger(cfg *config.Config, stderr io.Writer) *zap.Logger {
	lvl, _ := cfg.Log.ZapLevel()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(stderr)),
		lvl,
	)
	return zap.New(core).Named("recur")
}

func newTable(cfg *config.Config) (pure.Table[*big.Int], func(), error) {
	switch cfg.Table.Kind {
	case config.TableMemDB:
		t, err := tables.NewMemDB[*big.Int]()
		return t, func() {}, err
	case config.TableTiered:
		backing, err := tables.NewMemDB[*big.Int]()
		if err != nil {
			return nil, nil, err
		}
		t, err := tables.NewTiered[*big.Int](backing, cfg.Table.CacheSize)
		if err != nil {
			return nil, nil, err
		}
		return t, t.Close, nil
	default:
		return pure.NewMemoryTable[*big.Int](), func() {}, nil
	}
}

func evaluate(ctx context.Context, cfg *config.Config, logger *zap.Logger, indices []int) ([]*big.Int, error) {
	def, _ := pure.LookupDefinition(cfg.Recurrence.Name)
	table, closeTable, err := newTable(cfg)
	if err != nil {
		return nil, err
	}
	defer closeTable()

	e, err := def.NewEvaluatorWithTable(table,
		pure.WithRecursionLimit(cfg.Recurrence.RecursionLimit),
		pure.WithMaxDepth(cfg.Recurrence.MaxDepth),
	)
	if err != nil {
		return nil, err
	}

	ctx, endOfLogHandler := log.WithZapEffectHandler(ctx, cfg.Effect.Log.BufferSize, logger)
	defer endOfLogHandler()

	ctx, endOfConcurrencyHandler := concurrency.WithEffectHandler(ctx, 1)
	defer endOfConcurrencyHandler()

	ctx, endOfRecurrenceHandler := recurrence.WithEffectHandler(
		ctx,
		cfg.Effect.Recurrence.BufferSize,
		cfg.Effect.Recurrence.NumWorkers,
		map[string]*pure.Evaluator[*big.Int]{def.Name: e},
	)
	defer endOfRecurrenceHandler()

	source, err := recurrence.EffectSource(ctx)
	if err != nil {
		return nil, err
	}
	concurrency.Effect(ctx, func(context.Context) {
		for ev := range source {
			log.Effect(ctx, log.LogDebug, "evaluation event", map[string]any{
				"recurrence": ev.Name,
				"index":      ev.Index,
				"cached":     ev.Cached,
				"elapsed":    ev.Span.Duration().String(),
			})
		}
	})

	log.Effect(ctx, log.LogInfo, "evaluating", map[string]any{
		"recurrence": def.Name,
		"evaluator":  e.ID(),
		"table":      cfg.Table.Kind,
		"indices":    len(indices),
	})

	if len(indices) == 1 {
		v, err := recurrence.EffectEvaluate[*big.Int](ctx, def.Name, indices[0])
		if err != nil {
			return nil, err
		}
		return []*big.Int{v}, nil
	}
	return recurrence.EffectEvaluateAll[*big.Int](ctx, def.Name, indices, cfg.Effect.Recurrence.NumWorkers)
}
