package ebook

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// LibArchiver writes the EPUB in process.
type LibArchiver struct{}

func NewLibArchiver() *LibArchiver {
	return &LibArchiver{}
}

// Archive stores mimetype first and uncompressed, then deflates META-INF
// and OEBPS. Hidden files such as .DS_Store are skipped.
func (a *LibArchiver) Archive(ctx context.Context, buildDir, outputPath string) (err error) {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	defer func() {
		if closeErr := out.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close %s: %w", outputPath, closeErr)
		}
	}()

	zw := zip.NewWriter(out)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return fmt.Errorf("failed to add mimetype: %w", err)
	}
	if _, err := io.WriteString(w, mimetype); err != nil {
		return fmt.Errorf("failed to add mimetype: %w", err)
	}

	for _, dir := range []string{metaInfDir, oebpsDir} {
		if err := addTree(ctx, zw, buildDir, dir); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish %s: %w", outputPath, err)
	}
	return nil
}

func addTree(ctx context.Context, zw *zip.Writer, buildDir, dir string) error {
	root := filepath.Join(buildDir, dir)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to walk %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(buildDir, path)
		if err != nil {
			return err
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: filepath.ToSlash(rel), Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", rel, err)
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		if _, err := io.Copy(w, f); err != nil {
			return fmt.Errorf("failed to add %s: %w", rel, err)
		}
		return nil
	})
}

// CLIArchiver shells out to the zip tool.
type CLIArchiver struct {
	runner Runner
}

func NewCLIArchiver(runner Runner) *CLIArchiver {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &CLIArchiver{runner: runner}
}

func (a *CLIArchiver) Archive(ctx context.Context, buildDir, outputPath string) error {
	out, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", outputPath, err)
	}
	// zip appends to an existing archive
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", out, err)
	}

	steps := [][]string{
		{"-X0", out, "mimetype"},
		{"-rg", out, metaInfDir, "-x", "*.DS_Store"},
		{"-rg", out, oebpsDir, "-x", "*.DS_Store"},
	}
	for _, args := range steps {
		output, err := a.runner.Run(ctx, buildDir, "zip", args...)
		if err != nil {
			return &ToolError{Tool: "zip", Output: string(output), Err: err}
		}
	}
	return nil
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}
