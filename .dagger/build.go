package main

import (
	"fmt"
	"strings"
	"time"

	"context"

	"dagger/satchel/internal/dagger"
)

// Build and return directory of go binaries
//
// The satchel binary links sqlite through cgo, so artifacts are built
// natively inside the Go container rather than cross-compiled.
func (s *Satchel) Build(
	ctx context.Context,

	// Linker flags for go build
	// +optional
	// +default="-s -w"
	ldflags string,
) *dagger.Directory {
	path := "linux/amd64/"

	build := s.goContainer().
		WithExec([]string{"go", "build", "-ldflags", ldflags, "-o", path, "./cli/satchel"})

	return dag.Directory().WithDirectory(path, build.Directory(path))
}

// BuildRelease compiles versioned release binaries with embedded version info
func (s *Satchel) BuildRelease(
	ctx context.Context,

	// Version string of build
	version string,

	// Git commit SHA of build
	commit string,
) *dagger.Directory {
	buildtime := time.Now()

	ldflags := []string{
		"-s",
		"-w",
		fmt.Sprintf("-X 'github.com/satchelworks/satchel/pkg/utils.Version=%s'", version),
		fmt.Sprintf("-X 'github.com/satchelworks/satchel/pkg/utils.Sha=%s'", commit),
		fmt.Sprintf("-X 'github.com/satchelworks/satchel/pkg/utils.Buildtime=%s'", buildtime),
	}

	return s.Build(ctx, strings.Join(ldflags, " "))
}
