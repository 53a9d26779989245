// Command bmsim drives the engine from the command line.
//
// It supports two modes:
//  1. "run"    – plays a scripted action log once and prints the outcome
//  2. "verify" – plays the same script twice with the same seed and checks
//     that the two checksum trails agree
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/kelseyabreu/biomasters-engine-go/internal/catalog"
	"github.com/kelseyabreu/biomasters-engine-go/internal/config"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game"
)

var version = "dev" // set via ldflags during build

// script is a recorded game: seats, seed, and the ordered action log.
type script struct {
	GameID  string            `yaml:"game_id"`
	Seed    int64             `yaml:"seed"`
	Players []game.PlayerSpec `yaml:"players"`
	Actions []game.Action     `yaml:"actions"`
}

func main() {
	cmd := &cli.Command{
		Name:    "bmsim",
		Usage:   "deterministic ecosystem card game simulator",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to configuration file",
			},
			&cli.StringFlag{
				Name:  "catalog",
				Usage: "path to card catalog (overrides config)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "play a scripted game and print the outcome",
				ArgsUsage: "<script.yaml>",
				Action:    runScript,
			},
			{
				Name:      "verify",
				Usage:     "play a script twice and check the checksum trails agree",
				ArgsUsage: "<script.yaml>",
				Action:    verifyScript,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "bmsim: %v\n", err)
		os.Exit(1)
	}
}

func runScript(ctx context.Context, cmd *cli.Command) error {
	env, sc, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.logger.Sync()

	eng, rejected, err := play(env, sc)
	if err != nil {
		return err
	}

	gs := eng.GameState()
	fmt.Printf("game %s: phase=%s turn=%d actions=%d rejected=%d\n",
		gs.GameID, gs.Phase, gs.TurnNumber, len(sc.Actions), rejected)
	if result := eng.GetEndGameData(); result != nil {
		for id, total := range result.Totals {
			fmt.Printf("  %s: %d\n", id, total)
		}
		if result.Tie {
			fmt.Println("  result: tie")
		} else {
			fmt.Printf("  winner: %s\n", result.WinnerID)
		}
	}
	fmt.Printf("final checksum: %s\n", gs.Checksum())
	return nil
}

func verifyScript(ctx context.Context, cmd *cli.Command) error {
	env, sc, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.logger.Sync()

	first, _, err := play(env, sc)
	if err != nil {
		return err
	}
	second, _, err := play(env, sc)
	if err != nil {
		return err
	}

	a, b := first.ReplayLog(), second.ReplayLog()
	if !a.Matches(b) {
		ca, cb := a.Checksums(), b.Checksums()
		for i := range ca {
			if i >= len(cb) || ca[i] != cb[i] {
				return fmt.Errorf("checksum trails diverge at step %d of %d", i, len(ca))
			}
		}
		return fmt.Errorf("checksum trails have different lengths: %d vs %d", len(ca), len(cb))
	}
	fmt.Printf("verified: %d snapshots, final checksum %s\n",
		len(a.Checksums()), first.GameState().Checksum())
	return nil
}

// env bundles what both commands need after flag parsing.
type environment struct {
	cfg    *config.Config
	cat    *catalog.Catalog
	logger *zap.Logger
}

func setup(cmd *cli.Command) (*environment, *script, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}

	catalogPath := cfg.Catalog.Path
	if p := cmd.String("catalog"); p != "" {
		catalogPath = p
	}
	cat, err := catalog.LoadFile(catalogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}

	if cmd.Args().Len() != 1 {
		return nil, nil, fmt.Errorf("expected exactly one script file argument")
	}
	sc, err := loadScript(cmd.Args().First())
	if err != nil {
		return nil, nil, err
	}

	logger.Info("bmsim starting",
		zap.String("version", version),
		zap.String("catalog", catalogPath),
		zap.String("game", sc.GameID),
		zap.Int("cards", cat.Size()),
	)
	return &environment{cfg: cfg, cat: cat, logger: logger}, sc, nil
}

func loadScript(path string) (*script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing script %s: %w", path, err)
	}
	if sc.GameID == "" {
		sc.GameID = "bmsim"
	}
	if len(sc.Players) < 2 {
		return nil, fmt.Errorf("script %s declares %d players, need at least 2", path, len(sc.Players))
	}
	return &sc, nil
}

// play runs the script through a fresh engine. Rejected actions are
// counted and logged but do not stop the run: the engine leaves its state
// untouched on a rejection, so the remainder of the script still applies.
func play(env *environment, sc *script) (*game.Engine, int, error) {
	settings := game.Settings{
		GridWidth:        env.cfg.Game.GridWidth,
		GridHeight:       env.cfg.Game.GridHeight,
		ActionsPerTurn:   env.cfg.Game.ActionsPerTurn,
		StartingHandSize: env.cfg.Game.StartingHandSize,
		Seed:             sc.Seed,
	}
	if settings.Seed == 0 {
		settings.Seed = env.cfg.Game.Seed
	}

	eng := game.NewEngine(env.cat, settings, env.logger)
	if _, err := eng.InitializeNewGame(sc.GameID, sc.Players); err != nil {
		return nil, 0, fmt.Errorf("initializing game: %w", err)
	}

	rejected := 0
	for i, action := range sc.Actions {
		result := eng.ProcessAction(action)
		if !result.Valid {
			rejected++
			env.logger.Warn("action rejected",
				zap.Int("index", i),
				zap.String("type", string(action.Type)),
				zap.String("player", action.PlayerID),
				zap.String("reason", result.ErrorMessage),
			)
		}
	}
	return eng, rejected, nil
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
