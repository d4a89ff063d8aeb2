package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/verdict/engine"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// writerKey is used to override the output writer in [context.Context].
type writerKey struct{}

// WithStdout returns a new context.Context that directs command output to w.
func WithStdout(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, writerKey{}, w)
}

// stdout returns the output writer carried by ctx: an explicit override
// first, then the kong context's writer, then os.Stdout.
func stdout(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(writerKey{}).(io.Writer); ok && w != nil {
		return w
	}

	if ktx := kongContextFrom(ctx); ktx != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stdinSource is the special data path indicating standard input.
const stdinSource = "-"

// loadSymbols reads YAML data documents and merges their top-level mappings
// into a single symbol table. Later documents override earlier ones. The
// path "-" reads a document from standard input.
func loadSymbols(paths []string) (map[string]any, error) {
	symbols := make(map[string]any)

	for _, path := range paths {
		var (
			text []byte
			err  error
		)

		if path == stdinSource {
			text, err = io.ReadAll(os.Stdin)
		} else {
			text, err = os.ReadFile(path)
		}

		if err != nil {
			return nil, ErrLoadData.Wrap(err).
				With(slog.String("path", path))
		}

		doc, err := engine.NewYAMLResolver(bytes.NewReader(text))
		if err != nil {
			return nil, ErrLoadData.Wrap(err).
				With(slog.String("path", path))
		}

		for key, val := range doc {
			symbols[key] = val
		}
	}

	return symbols, nil
}

// loadLocation resolves an IANA timezone name, with "Local" and the empty
// string meaning the system timezone.
func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, ErrBadTimezone.Wrap(err).
			With(slog.String("timezone", name))
	}

	return loc, nil
}
