// Command quietjson normalizes JSON from a file or stdin: it parses the
// input forgivingly and re-emits it as compact JSON. Malformed fragments
// degrade to null instead of aborting, so the output is always valid JSON.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/quietjson/quietjson"
	"github.com/quietjson/quietjson/internal/config"
	"github.com/quietjson/quietjson/internal/errors"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Config      string `help:"Path to a config file. Defaults to the nearest .quietjson.yaml." short:"c" type:"path"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("quietjson"),
		kong.Description("A forgiving JSON normalizer: parse anything, emit compact JSON"),
		kong.UsageOnError(),
	)

	// With no arguments at all, default to interactive mode.
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	_, err := parser.Parse(os.Args[1:])
	if err != nil {
		// Usage is already shown by kong.UsageOnError().
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("quietjson version %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: quietjson --help\n")
		os.Exit(1)
	}
}

// run executes the main program logic
func run() error {
	cfg, err := config.LoadConfigWithCLI(CLI.Config, CLI.Input, CLI.Output)
	if err != nil {
		return errors.NewConfigError("failed to load configuration", err)
	}

	// 1. Read the input text
	src, err := readInput(cfg)
	if err != nil {
		return err
	}

	// 2. Parse forgivingly, then re-serialize compact
	out := quietjson.Serialize(quietjson.ParseValue(src))
	if cfg.Output.TrailingNewline {
		out += "\n"
	}

	// 3. Write the result
	return writeOutput(cfg, out)
}

// readInput reads JSON from file or stdin
func readInput(cfg *config.Config) (string, error) {
	if cfg.Input != "" {
		return readFile(cfg.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return "", errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped).
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return string(data), nil
}

func readFile(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewInputError(
				fmt.Sprintf("file '%s' not found", path),
				errors.ErrFileNotFound,
			)
		}
		return "", errors.NewInputError(
			fmt.Sprintf("failed to read file '%s'", path),
			err,
		)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return "", errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", path),
			errors.ErrEmptyInput,
		)
	}
	return string(data), nil
}

// writeOutput writes the result to file or stdout
func writeOutput(cfg *config.Config, out string) error {
	if cfg.Output.Path != "" {
		if err := os.WriteFile(cfg.Output.Path, []byte(out), 0644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", cfg.Output.Path), err)
		}
		fmt.Fprintf(os.Stderr, "Normalized JSON written to %s\n", cfg.Output.Path)
		return nil
	}

	if _, err := fmt.Print(out); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (string, error) {
	fmt.Fprintln(os.Stderr, "quietjson Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var builder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			builder.WriteString(line)
			break
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
		builder.WriteString(line)
	}

	src := builder.String()
	if len(strings.TrimSpace(src)) == 0 {
		return "", errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}
	return src, nil
}
