// Package profile wraps [github.com/pkg/profile] behind a small functional
// configuration surface.
//
// A [Config] is a closure over the three parameters the profiler accepts,
// composed with the With* options:
//
//	cfg := profile.WithPath(dir)(profile.WithMode("cpu")(profile.Config(
//		func() (string, string, bool) { return "", "", false },
//	)))
//	defer cfg.Start().Stop()
//
// Start is a no-op when no mode is configured, so callers never need to
// guard the deferred Stop. The supported modes are enumerated by [Modes]
// and cover the profiles exposed by pkg/profile, including cpu, mem, and
// trace.
package profile
