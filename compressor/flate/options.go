package flate

import (
	"io"
	"log/slog"
)

// Options configures Compress. Decompress only uses Logger.
type Options struct {
	// Logger receives debug records about each call. Nil discards them.
	Logger   *slog.Logger
	// MaxChain caps the hash-chain candidates the matcher probes per position. Zero means unlimited.
	MaxChain int
	// Progress receives the number of input bytes consumed as matching advances.
	Progress func(n int)
}

// DefaultOptions returns options that search the whole window and log nothing.
func DefaultOptions() *Options {
	return &Options{}
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return discard
	}
	return o.Logger
}
