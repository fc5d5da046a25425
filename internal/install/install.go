// Package install orchestrates resolving, fetching, and placing the ostt
// distribution on the local machine.
package install

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osttkit/osttpop/internal/fetch"
	"github.com/osttkit/osttpop/internal/platform"
)

// Options parameterizes one install run.
type Options struct {
	Target  platform.Target
	BaseURL string
	// BinDir receives the executable; DocDir the bundled documentation.
	BinDir string
	DocDir string
	// WorkDir holds the downloaded archive and extraction tree. A temp dir
	// is created when empty.
	WorkDir string
	// Checksum is an optional expected SHA-256 hex digest of the archive.
	Checksum string
}

// Result reports where the distribution files landed.
type Result struct {
	BinaryPath   string
	DocPath      string
	Digest       string
	Dependencies []string
}

// Installer downloads and installs one distribution target.
type Installer struct {
	client *fetch.Client
	logger *slog.Logger
}

func New(client *fetch.Client, logger *slog.Logger) *Installer {
	if client == nil {
		client = fetch.NewClient()
	}
	return &Installer{client: client, logger: logger}
}

// Run performs the full download, verify, extract, and place sequence.
func (i *Installer) Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Target.Triple == "" {
		return Result{}, fmt.Errorf("install requires a resolved target")
	}
	if opts.BinDir == "" {
		return Result{}, fmt.Errorf("install requires a bin dir")
	}

	workDir := opts.WorkDir
	if workDir == "" {
		dir, err := os.MkdirTemp("", "osttpop-install-*")
		if err != nil {
			return Result{}, fmt.Errorf("create work dir: %w", err)
		}
		defer os.RemoveAll(dir)
		workDir = dir
	}

	url := opts.Target.ArtifactURL(opts.BaseURL)
	archivePath := filepath.Join(workDir, opts.Target.ArchiveName())

	i.logInfo("downloading artifact", "url", url, "triple", opts.Target.Triple)
	digest, err := i.client.Download(ctx, url, archivePath)
	if err != nil {
		return Result{}, err
	}
	if err := fetch.VerifyChecksum(digest, opts.Checksum); err != nil {
		return Result{}, fmt.Errorf("verify %s: %w", opts.Target.ArchiveName(), err)
	}

	extractDir := filepath.Join(workDir, "extracted")
	if err := fetch.Extract(archivePath, extractDir); err != nil {
		return Result{}, err
	}

	plan := opts.Target.Files()
	root := filepath.Join(extractDir, opts.Target.ArchiveRoot())

	binaryPath := filepath.Join(opts.BinDir, plan.Executable)
	if err := placeFile(filepath.Join(root, plan.Executable), binaryPath, 0o755); err != nil {
		return Result{}, fmt.Errorf("install executable: %w", err)
	}

	result := Result{
		BinaryPath:   binaryPath,
		Digest:       digest,
		Dependencies: opts.Target.Dependencies,
	}

	if opts.DocDir != "" {
		docPath := filepath.Join(opts.DocDir, plan.Doc)
		if err := placeFile(filepath.Join(root, plan.Doc), docPath, 0o644); err != nil {
			return Result{}, fmt.Errorf("install doc: %w", err)
		}
		result.DocPath = docPath
	}

	i.logInfo("artifact installed",
		"binary", result.BinaryPath,
		"digest", digest,
		"dependencies", result.Dependencies,
	)
	return result, nil
}

// placeFile copies src to dest with the given mode, creating parent dirs.
func placeFile(src, dest string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("ensure dir for %s: %w", dest, err)
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}
	return nil
}

func (i *Installer) logInfo(message string, fields ...any) {
	if i.logger == nil {
		return
	}
	i.logger.Info(message, fields...)
}
