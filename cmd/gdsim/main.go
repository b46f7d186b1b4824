package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/palmguard/sim/internal/config"
	coresys "github.com/palmguard/sim/internal/core/system"
	"github.com/palmguard/sim/internal/data"
	"github.com/palmguard/sim/internal/phase"
	"github.com/palmguard/sim/internal/scripting"
	"github.com/palmguard/sim/internal/spawn"
	"github.com/palmguard/sim/internal/system"
	"github.com/palmguard/sim/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

var out = message.NewPrinter(language.English)

// ── Display helpers ───────────────────────────────────────────────

func printBanner(seed int64) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             palmguard gdsim               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      headless gesture defense replay      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mseed:\033[0m %d\n\n", seed)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, value any) {
	var numStr string
	switch v := value.(type) {
	case float64:
		numStr = out.Sprintf("%.1f", v)
	case int:
		numStr = out.Sprintf("%d", v)
	default:
		numStr = fmt.Sprint(v)
	}
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Host ──────────────────────────────────────────────────────────

func run() error {
	cfgPath := os.Getenv("GDSIM_CONFIG")
	flag.StringVar(&cfgPath, "config", cfgPath, "path to the TOML config (defaults built in when empty)")
	seed := flag.Int64("seed", 0, "override [sim].seed when non-zero")
	replayPath := flag.String("replay", "", "override [input].replay_file")
	flag.Parse()

	// 1. Load config
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	if *seed != 0 {
		cfg.Sim.Seed = *seed
	}
	if *replayPath != "" {
		cfg.Input.ReplayFile = *replayPath
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Sim.Seed)

	// 3. Tunables
	combatCfg, err := cfg.CombatSettings()
	if err != nil {
		return err
	}
	phaseCfg, err := cfg.PhaseSettings()
	if err != nil {
		return err
	}

	// 4. Spawn curve and tracker replay
	printSection("data")
	tiers, source, err := loadTiers(cfg.Spawn, log)
	if err != nil {
		return fmt.Errorf("spawn curve: %w", err)
	}
	printOK("spawn curve from " + source)
	printStat("spawn tiers", len(tiers))

	replay, err := loadReplay(cfg.Input.ReplayFile, phaseCfg)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	printStat("replay frames", replay.Len())
	printStat("replay length (ms)", replay.DurationMs())
	fmt.Println()

	// 5. Session state and systems
	ws, err := world.NewState(combatCfg, phaseCfg, tiers, cfg.Sim.Seed, log)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	input := system.NewInputSystem(ws, replay, system.GestureMap{
		Fire:    phase.Gesture(cfg.Input.FireGesture),
		Missile: phase.Gesture(cfg.Input.MissileGesture),
	}, phaseCfg.StartGesture, log.Named("input"))
	report := system.NewReportSystem(ws, cfg.Sim.ReportEvery, log.Named("report"))

	runner := coresys.NewRunner()
	runner.Register(input)
	runner.Register(system.NewEventDispatchSystem(ws.Bus))
	runner.Register(system.NewCombatSystem(ws, log.Named("combat")))
	runner.Register(report)

	// 6. Game loop
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printSection("loop")
	printReady(fmt.Sprintf("tick %s, realtime %t", cfg.Sim.TickRate, cfg.Sim.Realtime))
	fmt.Println()

	maxMs := float64(cfg.Sim.MaxDuration) / float64(time.Millisecond)
	done := func() bool {
		if ws.ClockMs >= maxMs {
			return true
		}
		return input.Exhausted() && ws.Controller.Phase() != phase.Playing
	}

	if cfg.Sim.Realtime {
		ticker := time.NewTicker(cfg.Sim.TickRate)
		defer ticker.Stop()
	loop:
		for !done() {
			select {
			case <-ticker.C:
				runner.Tick(cfg.Sim.TickRate)
			case <-ctx.Done():
				log.Info("interrupted", zap.Float64("clock_ms", ws.ClockMs))
				break loop
			}
		}
	} else {
		for !done() && ctx.Err() == nil {
			runner.Tick(cfg.Sim.TickRate)
		}
	}
	// Deliver events queued by the final tick.
	runner.TickPhase(coresys.PhasePreUpdate, 0)
	if n := ws.Bus.Pending(); n > 0 {
		log.Debug("events left undelivered at shutdown", zap.Int("count", n))
	}

	// 7. Results
	printSection("results")
	printStat("clock (ms)", ws.ClockMs)
	printStat("final phase", string(ws.Controller.Phase()))
	results := report.Results()
	printStat("sessions finished", len(results))
	for i, r := range results {
		fmt.Println()
		printSection(fmt.Sprintf("session %d: %s", i+1, r.Reason))
		printStat("played (ms)", r.Summary.ElapsedMs)
		printStat("hull", r.Summary.Hull)
		printStat("kills", r.Summary.Kills)
		for _, k := range spawn.Kinds() {
			printStat("  "+k.String(), r.Summary.KillsByKind[k])
		}
		printStat("spawns", r.Summary.Spawns)
		printStat("spawns rejected", r.Summary.Rejected)
		printStat("breaches", r.Summary.Breaches)
		printStat("shots fired", r.Summary.ShotsFired)
		printStat("missiles launched", r.Summary.MissilesLaunched)
	}
	if ws.Controller.Phase() == phase.Playing || ws.Controller.Phase() == phase.Paused {
		sum := ws.Sim.Summary()
		fmt.Println()
		printSection("session in progress")
		printStat("played (ms)", sum.ElapsedMs)
		printStat("hull", sum.Hull)
		printStat("kills", sum.Kills)
	}
	fmt.Println()
	return nil
}

// loadTiers picks the spawn curve: a Lua spawn_tiers() hook first, then a
// YAML curve file, then the built-in curve.
func loadTiers(cfg config.SpawnConfig, log *zap.Logger) ([]spawn.Tier, string, error) {
	if cfg.ScriptsDir != "" {
		eng, err := scripting.NewEngine(cfg.ScriptsDir, log.Named("lua"))
		if err != nil {
			return nil, "", err
		}
		defer eng.Close()
		tiers, err := eng.SpawnTiers()
		switch {
		case err == nil:
			return tiers, "lua " + cfg.ScriptsDir, nil
		case !errors.Is(err, scripting.ErrNotDefined):
			return nil, "", err
		}
		log.Debug("no lua spawn curve, falling back", zap.String("dir", cfg.ScriptsDir))
	}
	if cfg.CurveFile != "" {
		tiers, err := data.LoadSpawnCurve(cfg.CurveFile)
		if err != nil {
			return nil, "", err
		}
		return tiers, cfg.CurveFile, nil
	}
	return spawn.DefaultTiers(), "built-in curve", nil
}

func loadReplay(path string, pc phase.Config) (*data.Replay, error) {
	if path != "" {
		return data.LoadReplay(path)
	}
	return data.NewReplay(demoFrames(pc))
}

// demoFrames scripts a short session: calibrate, start, sweep the cursor
// while firing, fire a missile every few seconds, pause once and resume.
func demoFrames(pc phase.Config) []data.ReplayFrame {
	const step = 33.0
	stable := true
	var frames []data.ReplayFrame
	add := func(at float64, g phase.Gesture, cursor []float64) {
		frames = append(frames, data.ReplayFrame{At: at, Stable: &stable, Gesture: string(g), Cursor: cursor})
	}

	at := 0.0
	for ; at <= pc.CalibrationStableMs+step; at += step {
		add(at, phase.GestureNone, nil)
	}
	add(at, pc.StartGesture, nil)
	start := at

	pauseAt := start + 30_000
	resumeAt := pauseAt + pc.PauseHoldMs + 2_000
	for at = start + step; at < start+90_000; at += step {
		switch {
		case at >= pauseAt && at < resumeAt:
			add(at, pc.PauseGesture, nil)
		case at >= resumeAt && at < resumeAt+step:
			if len(pc.ResumeGestures) > 0 {
				add(at, pc.ResumeGestures[0], nil)
			}
		default:
			t := (at - start) / 1000
			cursor := []float64{0.5 + 0.35*math.Sin(t*0.9), 0.5 + 0.25*math.Sin(t*1.7)}
			g := phase.GesturePinch
			if math.Mod(t, 6) < 0.1 {
				g = phase.GestureFist
			}
			add(at, g, cursor)
		}
	}
	return frames
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
