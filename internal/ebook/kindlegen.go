package ebook

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

const kindleGenName = "kindlegen"

// KindleGen converts a staged OPF to Mobi with Amazon's kindlegen.
type KindleGen struct {
	path        string
	compression int
	runner      Runner
	lookPath    func(string) (string, error)
	logger      *slog.Logger
}

// NewKindleGen returns a converter. An empty path tries ./kindlegen and
// then $PATH. compression is passed as -c0, -c1 or -c2.
func NewKindleGen(path string, compression int, runner Runner, logger *slog.Logger) *KindleGen {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &KindleGen{
		path:        path,
		compression: compression,
		runner:      runner,
		lookPath:    exec.LookPath,
		logger:      logger,
	}
}

// Locate returns the kindlegen binary to run.
func (k *KindleGen) Locate() (string, error) {
	if k.path != "" {
		if !isFile(k.path) {
			return "", fmt.Errorf("%w at %s", ErrKindleGenNotFound, k.path)
		}
		return absPath(k.path)
	}
	if local := "./" + kindleGenName; isFile(local) {
		return absPath(local)
	}
	path, err := k.lookPath(kindleGenName)
	if err != nil {
		return "", fmt.Errorf("%w in the current directory or $PATH: %w", ErrKindleGenNotFound, err)
	}
	return path, nil
}

// Convert runs kindlegen in the directory of the OPF, where it writes its
// output, and moves the result to outputPath.
func (k *KindleGen) Convert(ctx context.Context, opfPath, outputPath string) error {
	bin, err := k.Locate()
	if err != nil {
		return err
	}
	if outputPath, err = absPath(outputPath); err != nil {
		return err
	}

	name := filepath.Base(outputPath)
	dir, err := absPath(filepath.Dir(opfPath))
	if err != nil {
		return err
	}
	output, err := k.runner.Run(ctx, dir, bin,
		filepath.Base(opfPath),
		fmt.Sprintf("-c%d", k.compression),
		"-dont_append_source",
		"-o", name,
	)
	if err != nil {
		return &ToolError{Tool: kindleGenName, Output: string(output), Err: err}
	}
	k.logger.Debug("kindlegen finished", slog.String("output", string(output)))

	produced := filepath.Join(dir, name)
	if err := os.Rename(produced, outputPath); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", produced, outputPath, err)
	}
	return nil
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return abs, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
