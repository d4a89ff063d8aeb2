package cli

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/verdict/log"
	"github.com/ardnew/verdict/profile"
)

type pprofConfig struct {
	Mode string `default:""             enum:"${pprof_modes}" help:"Enable profiling mode (${pprof_modes})."`
	Dir  string `default:"${pprof_dir}" type:"path"           help:"Profile output directory."`
}

func (*pprofConfig) vars() kong.Vars {
	return kong.Vars{
		// The leading comma admits the empty default.
		"pprof_modes": "," + strings.Join(profile.Modes(), ","),
		"pprof_dir":   cacheDir(),
	}
}

func (*pprofConfig) group() kong.Group {
	return kong.Group{
		Key:   "pprof",
		Title: "Profiling options",
	}
}

// start begins profiling if a mode was selected and returns the stop
// function. It always returns a callable function.
func (f *pprofConfig) start(ctx context.Context) func() {
	if f.Mode == "" {
		return func() {}
	}

	cfg := profile.WithQuiet(!log.Default().Enabled(ctx, slog.LevelDebug))(
		profile.WithPath(f.Dir)(
			profile.WithMode(f.Mode)(
				func() (string, string, bool) { return "", "", false },
			),
		),
	)

	log.DebugContext(ctx, "profiler started",
		slog.String("mode", f.Mode),
		slog.String("dir", f.Dir),
	)

	return cfg.Start().Stop
}
