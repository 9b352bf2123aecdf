package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/jsondelta/internal/codec"
	"github.com/mcncl/jsondelta/internal/errors"
	"github.com/mcncl/jsondelta/internal/models"
)

// stdinName selects standard input in place of a file argument
const stdinName = "-"

// readText reads a file argument, or stdin for "-"
func (g *Globals) readText(name string) (string, error) {
	if name == "" || name == stdinName {
		return g.readStdin()
	}

	info, err := os.Stat(name)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewInputError(fmt.Sprintf("cannot read %s", name), errors.ErrFileNotFound)
		}
		return "", errors.NewInputError(fmt.Sprintf("cannot read %s", name), err)
	}
	if info.IsDir() {
		return "", errors.NewInputError(fmt.Sprintf("%s is a directory", name), errors.ErrInvalidFilePath)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", errors.NewInputError(fmt.Sprintf("cannot read %s", name), err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.NewInputError(fmt.Sprintf("cannot read %s", name), errors.ErrFileEmpty)
	}
	g.Logger.Debug("read input file", "path", name, "bytes", len(data))
	return string(data), nil
}

func (g *Globals) readStdin() (string, error) {
	// A terminal on stdin means nothing was piped in
	if f, ok := g.Stdin.(*os.File); ok {
		stat, err := f.Stat()
		if err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			return "", errors.NewInputError("no input", errors.ErrNoInput)
		}
	}

	data, err := io.ReadAll(g.Stdin)
	if err != nil {
		return "", errors.NewInputError("error reading from stdin", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.NewInputError("no input", errors.ErrEmptyInput)
	}
	g.Logger.Debug("read stdin", "bytes", len(data))
	return string(data), nil
}

// readDocument reads and strictly parses a file argument
func (g *Globals) readDocument(name string) (models.JSONValue, string, error) {
	text, err := g.readText(name)
	if err != nil {
		return nil, "", err
	}
	v, err := codec.ParseStrict(text)
	if err != nil {
		return nil, "", err
	}
	return v, text, nil
}

// readPair reads the two sides of a comparison; only one of them may be stdin
func (g *Globals) readPair(left, right string) (models.JSONValue, models.JSONValue, string, string, error) {
	if isStdin(left) && isStdin(right) {
		return nil, nil, "", "", errors.NewInputError("only one document can be read from stdin", errors.ErrInvalidFilePath)
	}
	l, lText, err := g.readDocument(left)
	if err != nil {
		return nil, nil, "", "", err
	}
	r, rText, err := g.readDocument(right)
	if err != nil {
		return nil, nil, "", "", err
	}
	return l, r, lText, rText, nil
}

func isStdin(name string) bool {
	return name == "" || name == stdinName
}

// writeOutput writes content to the output file, or stdout when none is given
func (g *Globals) writeOutput(output, content string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	if output == "" {
		if _, err := io.WriteString(g.Stdout, content); err != nil {
			return errors.NewOutputError("error writing to stdout", err)
		}
		return nil
	}

	if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
		return errors.NewOutputError(fmt.Sprintf("error writing to file %s", output), err)
	}
	g.Logger.Info("wrote output", "path", output)
	return nil
}

// writeDocument serializes v with the given indent and writes it out
func (g *Globals) writeDocument(output string, v models.JSONValue, indent int) error {
	out, err := codec.Encode(v, indent)
	if err != nil {
		return err
	}
	return g.writeOutput(output, string(out))
}
