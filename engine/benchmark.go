package engine

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/dsnet/compress/bzip2"
	"github.com/fatih/color"
	kflate "github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
)

// Result is one codec's run over one file.
type Result struct {
	File           string
	Codec          string
	OriginalSize   int
	CompressedSize int
	CompressTime   time.Duration
	DecompressTime time.Duration
	Verified       bool
	Err            error
}

type referenceCodec struct {
	name       string
	compress   func([]byte) ([]byte, error)
	decompress func([]byte) ([]byte, error)
}

var referenceCodecs = []referenceCodec{
	{"deflate", deflateCompress, deflateDecompress},
	{"zstd", zstdCompress, zstdDecompress},
	{"brotli", brotliCompress, brotliDecompress},
	{"bzip2", bzip2Compress, bzip2Decompress},
}

func deflateCompress(src []byte) ([]byte, error) {
	var b bytes.Buffer
	w, err := kflate.NewWriter(&b, kflate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func deflateDecompress(src []byte) ([]byte, error) {
	r := kflate.NewReader(bytes.NewReader(src))
	defer r.Close()
	return io.ReadAll(r)
}

func zstdCompress(src []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(src, nil), nil
}

func zstdDecompress(src []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(src, nil)
}

func brotliCompress(src []byte) ([]byte, error) {
	var b bytes.Buffer
	w := brotli.NewWriterLevel(&b, brotli.DefaultCompression)
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func brotliDecompress(src []byte) ([]byte, error) {
	return io.ReadAll(brotli.NewReader(bytes.NewReader(src)))
}

func bzip2Compress(src []byte) ([]byte, error) {
	var b bytes.Buffer
	w, err := bzip2.NewWriter(&b, nil)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func bzip2Decompress(src []byte) ([]byte, error) {
	r, err := bzip2.NewReader(bytes.NewReader(src), nil)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func measure(file, name string, content []byte, compress, decompress func([]byte) ([]byte, error)) Result {
	res := Result{File: file, Codec: name, OriginalSize: len(content)}
	start := time.Now()
	compressed, err := compress(content)
	res.CompressTime = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	res.CompressedSize = len(compressed)
	start = time.Now()
	restored, err := decompress(compressed)
	res.DecompressTime = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	res.Verified = bytes.Equal(restored, content)
	return res
}

// BenchmarkContent runs every applicable engine and every reference codec over content. The jhk
// engine only runs on PNG input, and its round trip is checked on decoded pixels.
func BenchmarkContent(name string, content []byte, cfg *Config) []Result {
	var quiet Config
	if cfg != nil {
		quiet.MaxChain, quiet.Logger = cfg.MaxChain, cfg.Logger
	}
	var results []Result
	for _, algorithm := range Engines {
		if algorithm == "jhk" && !strings.EqualFold(filepath.Ext(name), ".png") {
			continue
		}
		algorithms := []string{algorithm}
		compress := func(src []byte) ([]byte, error) { return Compress(src, algorithms, &quiet) }
		decompress := func(src []byte) ([]byte, error) { return Decompress(src, algorithms, &quiet) }
		res := measure(name, algorithm, content, compress, decompress)
		if algorithm == "jhk" && res.Err == nil && !res.Verified {
			res.Verified, res.Err = samePixels(content, compress, decompress)
		}
		results = append(results, res)
	}
	for _, rc := range referenceCodecs {
		results = append(results, measure(name, rc.name, content, rc.compress, rc.decompress))
	}
	return results
}

// samePixels compares the PNG re-encoded by the jhk engine with the original at pixel level.
func samePixels(content []byte, compress, decompress func([]byte) ([]byte, error)) (bool, error) {
	compressed, err := compress(content)
	if err != nil {
		return false, err
	}
	restored, err := decompress(compressed)
	if err != nil {
		return false, err
	}
	a, err := decodePNG(content)
	if err != nil {
		return false, err
	}
	b, err := decodePNG(restored)
	if err != nil {
		return false, err
	}
	return a.Width == b.Width && a.Height == b.Height && bytes.Equal(a.Pix, b.Pix), nil
}

func BenchmarkFiles(files []string, cfg *Config) ([]Result, error) {
	var results []Result
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		results = append(results, BenchmarkContent(file, content, cfg)...)
	}
	PrintResults(cfg.stdout(), results)
	return results, nil
}

func PrintResults(w io.Writer, results []Result) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tCODEC\tORIGINAL\tCOMPRESSED\tRATIO\tCOMPRESS\tDECOMPRESS\tSTATUS")
	for _, r := range results {
		status := color.GreenString("ok")
		switch {
		case r.Err != nil:
			status = color.RedString("error: %v", r.Err)
		case !r.Verified:
			status = color.RedString("mismatch")
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			r.File, r.Codec, r.OriginalSize, r.CompressedSize,
			ratioString(r.CompressedSize, r.OriginalSize),
			r.CompressTime.Round(time.Microsecond), r.DecompressTime.Round(time.Microsecond), status)
	}
	tw.Flush()
}
