package cli

import (
	"os"
	"path/filepath"

	"github.com/sologit/sologit/internal/aichannel"
	"github.com/sologit/sologit/internal/complexity"
	"github.com/sologit/sologit/internal/config"
	"github.com/sologit/sologit/internal/costguard"
	"github.com/sologit/sologit/internal/fileutil"
	"github.com/sologit/sologit/internal/orchestrator"
	"github.com/sologit/sologit/internal/patch"
	"github.com/sologit/sologit/internal/repoengine"
	"github.com/sologit/sologit/internal/router"
	"github.com/sologit/sologit/internal/workpadengine"
)

// app bundles every layer of the engine, wired once per command
// invocation against the resolved data root and (optional) config file.
type app struct {
	dataRoot string
	cfg      *config.Config

	repos    *repoengine.Engine
	workpads *workpadengine.Engine
	patches  *patch.Engine
	guard    *costguard.CostGuard
	rtr      *router.Router
	orch     *orchestrator.Orchestrator
}

// newApp loads config (if any), initializes the data root, and wires the
// full dependency chain: repoengine -> workpadengine -> patch engine,
// and router -> costguard -> orchestrator over an ExecChannel driving
// the configured local model runner.
func newApp() (*app, error) {
	dataRoot := resolveDataDir()
	if dataRoot == "" {
		dataRoot = fileutil.DefaultDataRoot()
	}
	if err := fileutil.EnsureDir(fileutil.MetadataDir(dataRoot)); err != nil {
		return nil, err
	}

	cfg, err := loadConfig(dataRoot)
	if err != nil {
		return nil, err
	}

	repos, err := repoengine.New(dataRoot)
	if err != nil {
		return nil, err
	}
	workpads, err := workpadengine.New(dataRoot, repos)
	if err != nil {
		return nil, err
	}
	patches := patch.New(repos, workpads)

	guardCfg := cfg.CostGuard
	if guardCfg.DailyCapUSD.IsZero() {
		guardCfg = costguard.DefaultConfig()
	}
	guard, err := costguard.New(dataRoot, guardCfg)
	if err != nil {
		return nil, err
	}

	rtr := router.New(&cfg.Router)

	workDir := cfg.Runner.WorkDir
	if workDir == "" {
		workDir = aichannel.DefaultWorkDir()
	}
	if err := fileutil.EnsureDir(workDir); err != nil {
		return nil, err
	}
	channel := aichannel.NewExecChannel(cfg.Runner.Command, cfg.Runner.Args, workDir)
	orch := orchestrator.New(channel, rtr, guard, cfg.Orchestrator)

	return &app{
		dataRoot: dataRoot,
		cfg:      cfg,
		repos:    repos,
		workpads: workpads,
		patches:  patches,
		guard:    guard,
		rtr:      rtr,
		orch:     orch,
	}, nil
}

// loadConfig resolves the config path (--config flag, or
// <data-root>/config.yaml when present) and loads it, falling back to an
// all-defaults config when no file is configured.
func loadConfig(dataRoot string) (*config.Config, error) {
	path := configFlag
	if path == "" {
		candidate := filepath.Join(dataRoot, "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path == "" {
		return &config.Config{CostGuard: costguard.DefaultConfig()}, nil
	}
	return config.Load(path)
}

// complexityContext builds a complexity.Context from the CLI's
// --file-count/--lines-changed/--files-changed flags, returning nil when
// none were set so Analyze falls back to prompt-only estimation.
func complexityContext(fileCount, linesChanged, filesChanged int) *complexity.Context {
	if fileCount == 0 && linesChanged == 0 && filesChanged == 0 {
		return nil
	}
	return &complexity.Context{
		FileCount:    fileCount,
		LinesChanged: linesChanged,
		FilesChanged: filesChanged,
	}
}
