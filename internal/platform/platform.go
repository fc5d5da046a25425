// Package platform resolves install-time distribution targets by OS and CPU.
package platform

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ToolName is the upstream executable this repository distributes.
const ToolName = "ostt"

// OS is a supported operating-system identifier (GOOS values).
type OS string

// Arch is a supported CPU-architecture identifier (GOARCH values).
type Arch string

const (
	OSDarwin OS = "darwin"
	OSLinux  OS = "linux"
)

const (
	ArchARM64 Arch = "arm64"
	ArchAMD64 Arch = "amd64"
)

// ErrUnsupportedPlatform marks OS/arch combinations with no distribution artifact.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Target describes one installable distribution variant.
type Target struct {
	OS           OS
	Arch         Arch
	Triple       string
	Dependencies []string
}

// FilePlan names the files installed from a target's archive subdirectory.
type FilePlan struct {
	Executable string
	Doc        string
}

var baseDependencies = []string{"ffmpeg"}

// ALSA userspace library; macOS records through AVFoundation instead.
var linuxDependencies = []string{"libasound2"}

// Resolve maps an (OS, arch) pair to exactly one distribution target.
// There is no fallback: an unrecognized pair is a configuration error.
func Resolve(osID OS, arch Arch) (Target, error) {
	var triple string
	switch {
	case osID == OSDarwin && arch == ArchARM64:
		triple = "aarch64-apple-darwin"
	case osID == OSDarwin && arch == ArchAMD64:
		triple = "x86_64-apple-darwin"
	case osID == OSLinux && arch == ArchARM64:
		triple = "aarch64-unknown-linux-gnu"
	case osID == OSLinux && arch == ArchAMD64:
		triple = "x86_64-unknown-linux-gnu"
	default:
		return Target{}, fmt.Errorf("%w: os=%q arch=%q", ErrUnsupportedPlatform, osID, arch)
	}

	deps := append([]string{}, baseDependencies...)
	if osID == OSLinux {
		deps = append(deps, linuxDependencies...)
	}

	return Target{OS: osID, Arch: arch, Triple: triple, Dependencies: deps}, nil
}

// Current resolves the target for the running host.
func Current() (Target, error) {
	return Resolve(OS(runtime.GOOS), Arch(runtime.GOARCH))
}

// ArchiveName returns the distribution artifact file name for the target.
func (t Target) ArchiveName() string {
	return ToolName + "-" + t.Triple + ".tar.gz"
}

// ArchiveRoot returns the top-level directory inside the artifact archive.
func (t Target) ArchiveRoot() string {
	return ToolName + "-" + t.Triple
}

// ArtifactURL joins the release base URL with the target's archive name.
func (t Target) ArtifactURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/" + t.ArchiveName()
}

// Files returns the install file plan relative to the archive root.
func (t Target) Files() FilePlan {
	return FilePlan{Executable: ToolName, Doc: "README.md"}
}
