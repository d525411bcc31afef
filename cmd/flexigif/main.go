// Command flexigif losslessly recompresses a GIF or Unix compress(1) .Z
// file's LZW bitstream, or decompresses one back to its raw index stream.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/Kreeblah/flexiGIF/gif"
	"github.com/Kreeblah/flexiGIF/internal/config"
	"github.com/Kreeblah/flexiGIF/lzw"
	"github.com/Kreeblah/flexiGIF/zfile"
)

type verboseLogger struct{}

func (verboseLogger) Debugf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

func main() {
	var (
		alignment  = flag.Int("a", 1, "block-restart alignment, in index-stream bytes")
		greedy     = flag.Bool("g", false, "disable non-greedy (flexible parsing) match search")
		nongreedy  = flag.Int("n", 2, "minimum greedy match length to attempt non-greedy search on")
		minImprove = flag.Int("m", 1, "minimum token-count improvement required to take a non-greedy match")
		splitRuns  = flag.Bool("r", false, "allow non-greedy search on runs of a single repeated byte")
		prettyGood = flag.Bool("p", true, "two-phase non-greedy DP (accepted; the optimizer ignores it)")
		compatible = flag.Bool("c", true, "stop dictionary growth 3 codes short of the format ceiling")
		immediate  = flag.Bool("y", false, "start the GIF token stream with a clear code")
		deinterlace = flag.Bool("l", false, "deinterlace a single-frame GIF before recompressing")
		decompress = flag.Bool("decompress", false, "decode the input and write its raw index stream instead of recompressing")
		verbose    = flag.Bool("v", false, "log diagnostic output to stderr")
		force      = flag.Bool("f", false, "overwrite the output file if it already exists")
	)
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: flexigif [flags] input output")
		os.Exit(2)
	}
	inputPath, outputPath := args[0], args[1]

	if !*force {
		if _, err := os.Stat(outputPath); err == nil {
			fmt.Fprintf(os.Stderr, "flexigif: %s already exists (use -f to overwrite)\n", outputPath)
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flexigif: loading config: %v\n", err)
		os.Exit(1)
	}

	opts := lzw.DefaultOptions(lzw.GIF)
	opts = cfg.Apply(opts)
	opts.Alignment = *alignment
	opts.Greedy = *greedy
	opts.MinNonGreedyMatch = *nongreedy
	opts.MinImprovement = *minImprove
	opts.SplitRuns = *splitRuns
	opts.PrettyGood = *prettyGood
	opts.Compatible = *compatible
	opts.StartWithClearCode = *immediate
	if *verbose {
		opts.Logger = verboseLogger{}
	}

	if err := run(inputPath, outputPath, opts, *decompress, *deinterlace); err != nil {
		fmt.Fprintf(os.Stderr, "flexigif: %v\n", err)
		os.Exit(1)
	}
}

func run(inputPath, outputPath string, opts lzw.Options, decompress, deinterlace bool) error {
	isZ, err := looksLikeZ(inputPath)
	if err != nil {
		return err
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	return writeAtomic(outputPath, func(w *os.File) error {
		if isZ {
			return processZ(in, w, opts, decompress)
		}
		return processGIF(in, w, opts, decompress, deinterlace)
	})
}

func looksLikeZ(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	var magic [2]byte
	if _, err := f.Read(magic[:]); err != nil {
		return false, nil
	}
	return magic[0] == 0x1F && magic[1] == 0x9D, nil
}

func processGIF(r *os.File, w *os.File, opts lzw.Options, decompress, deinterlace bool) error {
	img, err := gif.Parse(r)
	if err != nil {
		return err
	}
	if decompress {
		for _, f := range img.Frames() {
			if _, err := w.Write(f.IndexStream); err != nil {
				return err
			}
		}
		return nil
	}
	if deinterlace {
		for _, f := range img.Frames() {
			if err := gif.SetInterlacing(img, f, false); err != nil {
				return err
			}
		}
	}
	return gif.Recompress(w, img, opts)
}

func processZ(r *os.File, w *os.File, opts lzw.Options, decompress bool) error {
	f, err := zfile.Parse(r)
	if err != nil {
		return err
	}
	if decompress {
		_, err := w.Write(f.Data)
		return err
	}
	return zfile.Write(w, f, opts)
}

// writeAtomic writes through fn to a temp file named with a random UUID
// in the output's directory, then renames it over outputPath, so a crash
// or interrupted run never leaves a half-written file in place of a good
// one.
func writeAtomic(outputPath string, fn func(*os.File) error) error {
	dir := filepath.Dir(outputPath)
	tmpPath := filepath.Join(dir, "."+uuid.New().String()+".tmp")

	tmp, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	defer os.Remove(tmpPath)

	if err := fn(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, outputPath)
}
