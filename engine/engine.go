package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	pb "github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"

	"github.com/FitrahHaque/lzhuff/compressor/flate"
	"github.com/FitrahHaque/lzhuff/compressor/huffman"
)

var Engines = [...]string{
	"huffman",
	"lzhuff",
	"jhk",
}

var (
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrUnsupportedImage = errors.New("unsupported image")
)

// Config carries the settings shared by every command.
type Config struct {
	Logger   *slog.Logger
	// MaxChain is passed to the LZSS matcher. Zero searches the whole window.
	MaxChain int
	// Progress draws a progress bar on Stderr while the matcher runs.
	Progress bool
	Stdout   io.Writer
	Stderr   io.Writer
}

func (cfg *Config) stdout() io.Writer {
	if cfg == nil || cfg.Stdout == nil {
		return os.Stdout
	}
	return cfg.Stdout
}

func (cfg *Config) stderr() io.Writer {
	if cfg == nil || cfg.Stderr == nil {
		return os.Stderr
	}
	return cfg.Stderr
}

func (cfg *Config) logger() *slog.Logger {
	if cfg == nil || cfg.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cfg.Logger
}

// flateOptions builds the stream options for an input of size bytes. A progress bar is only drawn
// when matching runs; the returned stop function finishes it.
func (cfg *Config) flateOptions(size int, matching bool) (*flate.Options, func()) {
	opts := &flate.Options{Logger: cfg.logger()}
	if cfg == nil {
		return opts, func() {}
	}
	opts.MaxChain = cfg.MaxChain
	if !cfg.Progress || !matching {
		return opts, func() {}
	}
	bar := pb.New(size)
	bar.Set(pb.Bytes, true)
	bar.SetWriter(cfg.stderr())
	bar.Start()
	opts.Progress = func(n int) {
		bar.Add(n)
	}
	return opts, func() { bar.Finish() }
}

type codec struct {
	newWriter func(w io.Writer, opts *flate.Options) io.WriteCloser
	newReader func(r io.Reader, opts *flate.Options) io.Reader
}

var codecs = map[string]codec{
	"huffman": {
		newWriter: func(w io.Writer, _ *flate.Options) io.WriteCloser { return huffman.NewWriter(w) },
		newReader: func(r io.Reader, _ *flate.Options) io.Reader { return huffman.NewReader(r) },
	},
	"lzhuff": {
		newWriter: flate.NewWriter,
		newReader: flate.NewReader,
	},
	"jhk": {
		newWriter: newImageWriter,
		newReader: newImageReader,
	},
}

func lookup(algorithm string) (codec, error) {
	c, ok := codecs[algorithm]
	if !ok {
		return codec{}, fmt.Errorf("%w %q, choices include: %s", ErrUnknownAlgorithm, algorithm, strings.Join(Engines[:], ", "))
	}
	return c, nil
}

type compressor struct {
	compressionEngine string
	compressedContent []byte
}

func (c *compressor) write(content []byte, cfg *Config) (int, error) {
	engine, err := lookup(c.compressionEngine)
	if err != nil {
		return 0, err
	}
	opts, stop := cfg.flateOptions(len(content), c.compressionEngine != "huffman")
	defer stop()
	var b bytes.Buffer
	w := engine.newWriter(&b, opts)
	if _, err := w.Write(content); err != nil {
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("%s: %w", c.compressionEngine, err)
	}
	c.compressedContent = b.Bytes()
	return len(c.compressedContent), nil
}

func (c *compressor) read(content []byte, cfg *Config) (int, error) {
	engine, err := lookup(c.compressionEngine)
	if err != nil {
		return 0, err
	}
	opts := &flate.Options{Logger: cfg.logger()}
	out, err := io.ReadAll(engine.newReader(bytes.NewReader(content), opts))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", c.compressionEngine, err)
	}
	c.compressedContent = out
	return len(out), nil
}

// Compress applies the algorithms in order.
func Compress(content []byte, algorithms []string, cfg *Config) ([]byte, error) {
	for _, algorithm := range algorithms {
		file := compressor{
			compressionEngine: algorithm,
		}
		if _, err := file.write(content, cfg); err != nil {
			return nil, err
		}
		cfg.logger().Debug("engine: compressed", "algorithm", algorithm, "size", len(file.compressedContent))
		content = file.compressedContent
	}
	return content, nil
}

// Decompress undoes Compress for the same algorithm list, applying them in reverse.
func Decompress(content []byte, algorithms []string, cfg *Config) ([]byte, error) {
	for _, algorithm := range slices.Backward(algorithms) {
		file := compressor{
			compressionEngine: algorithm,
		}
		if _, err := file.read(content, cfg); err != nil {
			return nil, err
		}
		cfg.logger().Debug("engine: decompressed", "algorithm", algorithm, "size", len(file.compressedContent))
		content = file.compressedContent
	}
	return content, nil
}

func CompressFiles(algorithms []string, files []string, fileExtension string, cfg *Config) error {
	for _, file := range files {
		if err := compressFile(algorithms, file, file+"."+fileExtension, cfg); err != nil {
			return err
		}
	}
	return nil
}

func compressFile(algorithms []string, filePath string, outputFileName string, cfg *Config) error {
	fileContent, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	out := cfg.stdout()
	fmt.Fprintf(out, "Compressing %s...\n", filePath)
	compressed, err := Compress(fileContent, algorithms, cfg)
	if err != nil {
		return fmt.Errorf("compressing %s: %w", filePath, err)
	}
	if err = os.WriteFile(outputFileName, compressed, 0644); err != nil {
		return err
	}
	fmt.Fprintf(out, "Original size (in bytes): %v\n", len(fileContent))
	fmt.Fprintf(out, "Compressed size (in bytes): %v\n", len(compressed))
	fmt.Fprintf(out, "Compression ratio: %s\n", ratioString(len(compressed), len(fileContent)))
	fmt.Fprintf(out, "%s %s\n", color.GreenString("Written"), outputFileName)
	return nil
}

// DecompressionTarget names the output of decompressing filePath: the extension is stripped when
// present, otherwise ".out" is appended.
func DecompressionTarget(filePath, fileExtension string) string {
	if trimmed, ok := strings.CutSuffix(filePath, "."+fileExtension); ok && trimmed != "" {
		return trimmed
	}
	return filePath + ".out"
}

func DecompressFiles(algorithms []string, files []string, fileExtension string, cfg *Config) error {
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		fmt.Fprintf(cfg.stdout(), "Decompressing %s...\n", file)
		decompressed, err := Decompress(content, algorithms, cfg)
		if err != nil {
			return fmt.Errorf("decompressing %s: %w", file, err)
		}
		target := DecompressionTarget(file, fileExtension)
		if err := os.WriteFile(target, decompressed, 0644); err != nil {
			return err
		}
		fmt.Fprintf(cfg.stdout(), "%s %s (%d bytes)\n", color.GreenString("Written"), target, len(decompressed))
	}
	return nil
}

func ratioString(compressed, original int) string {
	if original == 0 {
		return "n/a"
	}
	ratio := float64(compressed) / float64(original) * 100
	s := fmt.Sprintf("%.2f%%", ratio)
	if ratio < 100 {
		return color.GreenString(s)
	}
	return color.YellowString(s)
}
