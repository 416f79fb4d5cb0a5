package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/FitrahHaque/lzhuff/engine"
)

var Commands = [...]string{"compress", "decompress", "benchmark", "help"}

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func usage(application string) {
	fmt.Fprintf(os.Stderr, "Usage of %s --<command> [OPTIONS] <file(s)>\n", application)
	fmt.Fprintf(os.Stderr, "Valid commands include:\n\t%s\n", strings.Join(Commands[:], ", "))
	fmt.Fprintf(os.Stderr, "Run %s --<command> --help for the options of a command\n", application)
}

func run(args []string) error {
	application := args[0]
	if len(args) == 1 {
		usage(application)
		return fmt.Errorf("please provide a command")
	}
	command, rest := "", args[1:]
	for _, c := range Commands {
		if args[1] == "--"+c || args[1] == "-"+c {
			command, rest = c, args[2:]
		}
	}
	switch command {
	case "help":
		usage(application)
		return nil
	case "":
		fmt.Println("No command is selected. Compression by default")
		command = "compress"
	}

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s --%s [OPTIONS] <file(s)>\n", application, command)
		fmt.Fprintf(os.Stderr, "Flag:\n")
		fs.PrintDefaults()
	}
	algorithm := fs.String("algorithm", "lzhuff", fmt.Sprintf("Which algorithm(s) to use, applied in order, choices include: \n\t%s", strings.Join(engine.Engines[:], ", ")))
	deleteAfter := fs.Bool("delete", false, "Delete the input file(s) afterwards")
	outputFileExtension := fs.String("outfileext", "rsn", "File extension used for the compressed result")
	verbose := fs.Bool("verbose", false, "Log debug details to stderr")
	maxChain := fs.Int("chain", 0, "Maximum hash-chain candidates per position (0 searches the whole window)")
	progress := fs.Bool("progress", false, "Show a progress bar while matching")
	if err := fs.Parse(rest); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	var files []string
	for _, arg := range fs.Args() {
		for _, f := range strings.Split(arg, ",") {
			if f = strings.TrimSpace(f); f != "" {
				files = append(files, f)
			}
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no file provided for %s", command)
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			return fmt.Errorf("could not open the provided file %s", f)
		}
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	cfg := &engine.Config{
		Logger:   slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
		MaxChain: *maxChain,
		Progress: *progress,
	}
	algorithmsChosen := strings.Split(*algorithm, ",")
	trimSpace(algorithmsChosen)

	var err error
	switch command {
	case "compress":
		err = engine.CompressFiles(algorithmsChosen, files, *outputFileExtension, cfg)
	case "decompress":
		err = engine.DecompressFiles(algorithmsChosen, files, *outputFileExtension, cfg)
	case "benchmark":
		_, err = engine.BenchmarkFiles(files, cfg)
	}
	if err != nil {
		return err
	}
	if *deleteAfter && command != "benchmark" {
		return deleteFiles(files)
	}
	return nil
}

func trimSpace(s []string) {
	for i := range s {
		s[i] = strings.TrimSpace(s[i])
	}
}

func deleteFiles(files []string) error {
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			return err
		}
	}
	return nil
}
