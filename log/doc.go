// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured at creation time using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// Attributes added with [Logger.With] are included in all subsequent
// messages:
//
//	logger = logger.With(slog.String("component", "engine"))
//	logger.Info("rule compiled") // includes component=engine
//
// Each level has a context-aware variant ([Logger.InfoContext] and friends);
// the context-unaware variants obtain their context from
// [DefaultContextProvider], which returns [context.TODO] by default.
//
// The package also maintains a default logger writing to standard error,
// reachable through the free functions ([Info], [Error], ...) and
// reconfigured with [Config].
//
// Five levels are supported, ordered [LevelTrace], [LevelDebug],
// [LevelInfo], [LevelWarn], and [LevelError]. Messages below the configured
// level are discarded. Output is rendered as logfmt-style text or JSON,
// optionally colorized with [WithPretty].
package log
