// Command musicxml-lrc extracts MusicXML lyrics into LRC-style timecodes.
// It can process one file (optionally enhancing a base LRC with word-level
// timing tags) or batch-process a directory tree with SQLite state tracking.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/musicxml-lrc/core/pipeline"
	"github.com/FocuswithJustin/musicxml-lrc/internal/batch"
	"github.com/FocuswithJustin/musicxml-lrc/internal/fileutil"
	"github.com/FocuswithJustin/musicxml-lrc/internal/logging"
)

const version = "0.2.0"

// CLI defines the command-line interface for musicxml-lrc.
var CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Single  SingleCmd  `cmd:"" help:"Process a single MusicXML file"`
	Batch   BatchCmd   `cmd:"" help:"Process a directory tree of MusicXML files with SQLite tracking and bucket moves"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// CommonFlags are the per-file extraction options shared by both commands.
type CommonFlags struct {
	Part            string  `default:"P1" help:"MusicXML part id to read lyrics from"`
	NoDedupe        bool    `help:"Keep duplicate lyric entries at identical timestamps"`
	Force           bool    `help:"Allow enhanced LRC output even when lengths differ"`
	LengthTolerance float64 `default:"5.0" help:"Allowed difference (seconds) between LRC end and MusicXML end"`
}

func (c CommonFlags) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		PartID:          c.Part,
		Dedupe:          !c.NoDedupe,
		Force:           c.Force,
		LengthTolerance: c.LengthTolerance,
	}
}

// SingleCmd processes one MusicXML file.
type SingleCmd struct {
	Input  string `arg:"" help:"Input MusicXML file" type:"existingfile"`
	Output string `short:"o" help:"Output LRC file (default: input basename .lrc)"`
	LRC    string `name:"lrc" help:"Base LRC file to enhance with word-level timing tags" type:"existingfile"`

	CommonFlags
}

func (c *SingleCmd) Run() error {
	outputPath := c.Output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(c.Input, filepath.Ext(c.Input)) + ".lrc"
	}

	scoreData, err := os.ReadFile(c.Input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var baseLRC []byte
	if c.LRC != "" {
		baseLRC, err = os.ReadFile(c.LRC)
		if err != nil {
			return fmt.Errorf("failed to read base LRC: %w", err)
		}
	}

	start := time.Now()
	lines, err := pipeline.Process(scoreData, baseLRC, c.pipelineOptions())
	if err != nil {
		return err
	}
	if err := fileutil.WriteLines(outputPath, lines); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote %d lines to %s in %s\n",
		len(lines), outputPath, time.Since(start).Round(time.Millisecond))
	return nil
}

// BatchCmd processes a directory tree of MusicXML files in parallel.
type BatchCmd struct {
	Root       string `required:"" help:"Root working directory containing input/ and bucket folders" type:"existingdir"`
	InputDir   string `help:"Input directory to scan (default: <root>/input)"`
	OutputDir  string `help:"Output directory for produced LRC files (default: <root>/lrc)"`
	BaseLRCDir string `name:"base-lrc-dir" help:"Directory of base LRC files to enhance, matched by relative path"`
	DBPath     string `name:"db-path" help:"SQLite file path (default: <root>/state.sqlite)"`
	Workers    int    `help:"Number of worker goroutines (default: number of CPUs)"`
	Queue      int    `default:"5000" help:"Bounded queue capacity for jobs"`
	Exts       string `default:"musicxml,xml" help:"Only process files with these extensions (comma-separated)"`
	NoMove     bool   `help:"Do not move inputs into bucket folders (debug mode)"`
	NoOutput   bool   `help:"Do not write outputs (debug mode)"`

	CommonFlags
}

func (c *BatchCmd) Run() error {
	return batch.Run(batch.Config{
		Root:       c.Root,
		InputDir:   c.InputDir,
		OutputDir:  c.OutputDir,
		BaseLRCDir: c.BaseLRCDir,
		DBPath:     c.DBPath,
		Workers:    c.Workers,
		QueueSize:  c.Queue,
		Exts:       strings.Split(c.Exts, ","),
		NoMove:     c.NoMove,
		NoOutput:   c.NoOutput,
		Pipeline:   c.pipelineOptions(),
	})
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("musicxml-lrc version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("musicxml-lrc"),
		kong.Description("Extract MusicXML lyrics into LRC; optionally enhance a base LRC; optionally batch-process directories."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if CLI.Verbose {
		logging.InitLogger(logging.LevelDebug, logging.FormatText)
	}
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
