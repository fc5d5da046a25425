package install

import (
	"archive/tar"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"github.com/osttkit/osttpop/internal/platform"
)

func releaseArchive(t *testing.T, root string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	entries := []struct {
		name    string
		mode    int64
		content string
	}{
		{root + "/" + platform.ToolName, 0o755, "#!/bin/sh\necho ostt\n"},
		{root + "/README.md", 0o644, "# ostt\n"},
	}
	for _, e := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     e.name,
			Mode:     e.mode,
			Size:     int64(len(e.content)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(e.content))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestRunInstallsExecutableAndDoc(t *testing.T) {
	target, err := platform.Resolve(platform.OSLinux, platform.ArchAMD64)
	require.NoError(t, err)

	archive := releaseArchive(t, target.ArchiveRoot())
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/"+target.ArchiveName(), r.URL.Path)
		_, _ = w.Write(archive)
	}))
	defer server.Close()

	binDir := filepath.Join(t.TempDir(), "bin")
	docDir := filepath.Join(t.TempDir(), "doc")

	result, err := New(nil, nil).Run(context.Background(), Options{
		Target:  target,
		BaseURL: server.URL,
		BinDir:  binDir,
		DocDir:  docDir,
	})
	require.NoError(t, err)

	require.Equal(t, filepath.Join(binDir, platform.ToolName), result.BinaryPath)
	info, err := os.Stat(result.BinaryPath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	doc, err := os.ReadFile(result.DocPath)
	require.NoError(t, err)
	require.Equal(t, "# ostt\n", string(doc))

	require.Equal(t, []string{"ffmpeg", "libasound2"}, result.Dependencies)
	require.Len(t, result.Digest, 64)
}

func TestRunChecksumMismatch(t *testing.T) {
	target, err := platform.Resolve(platform.OSDarwin, platform.ArchARM64)
	require.NoError(t, err)

	archive := releaseArchive(t, target.ArchiveRoot())
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer server.Close()

	_, err = New(nil, nil).Run(context.Background(), Options{
		Target:   target,
		BaseURL:  server.URL,
		BinDir:   t.TempDir(),
		Checksum: "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "checksum mismatch")
}

func TestRunDocDirOptional(t *testing.T) {
	target, err := platform.Resolve(platform.OSDarwin, platform.ArchAMD64)
	require.NoError(t, err)

	archive := releaseArchive(t, target.ArchiveRoot())
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer server.Close()

	result, err := New(nil, nil).Run(context.Background(), Options{
		Target:  target,
		BaseURL: server.URL,
		BinDir:  t.TempDir(),
	})
	require.NoError(t, err)
	require.Empty(t, result.DocPath)
	require.Equal(t, []string{"ffmpeg"}, result.Dependencies)
}

func TestRunRequiresResolvedTarget(t *testing.T) {
	_, err := New(nil, nil).Run(context.Background(), Options{BinDir: t.TempDir()})
	require.Error(t, err)
	require.Contains(t, err.Error(), "resolved target")
}

func TestRunRequiresBinDir(t *testing.T) {
	target, err := platform.Resolve(platform.OSLinux, platform.ArchARM64)
	require.NoError(t, err)

	_, err = New(nil, nil).Run(context.Background(), Options{Target: target})
	require.Error(t, err)
	require.Contains(t, err.Error(), "bin dir")
}

func TestRunMissingArtifact(t *testing.T) {
	target, err := platform.Resolve(platform.OSLinux, platform.ArchAMD64)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err = New(nil, nil).Run(context.Background(), Options{
		Target:  target,
		BaseURL: server.URL,
		BinDir:  t.TempDir(),
	})
	require.Error(t, err)
}
