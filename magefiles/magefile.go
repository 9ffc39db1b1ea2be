//go:build mage

// Package main contains Mage build targets for foldfetch developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the CLI expects.
var projectDirs = []string{
	"archive",
	"structures",
	".secrets",
}

// Init creates the project directory structure for the CLI.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "foldfetch"
	cmdPkg  = "./cmd/foldfetch"
)

// Build compiles the CLI binary into bin/. VERSION, when set, is stamped
// into the binary.
func Build() error {
	mg.Deps(Vet)
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	ldflags := ""
	if v := os.Getenv("VERSION"); v != "" {
		ldflags = "-X main.version=" + v
	}
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Vet runs go vet on every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Test runs the test suite with the race detector, then the tests of the
// build targets themselves, which need the mage tag.
func Test() error {
	if err := sh.RunV("go", "test", "-race", "-count=1", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "test", "-tags", "mage", "-count=1", "./magefiles")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// Stats prints production and test line counts for each Go package,
// followed by the totals.
func Stats() error {
	counts, err := packageLines(".")
	if err != nil {
		return err
	}

	var total lineCount
	fmt.Printf("%-28s %8s %8s\n", "package", "prod", "test")
	for _, pkg := range slices.Sorted(maps.Keys(counts)) {
		c := counts[pkg]
		fmt.Printf("%-28s %8d %8d\n", pkg, c.prod, c.test)
		total.prod += c.prod
		total.test += c.test
	}
	fmt.Printf("%-28s %8d %8d\n", "total", total.prod, total.test)
	return nil
}

type lineCount struct {
	prod, test int
}

// packageLines counts Go source lines under root, keyed by directory
// relative to root. Directories starting with "_" or "." and the build
// output are skipped.
func packageLines(root string) (map[string]lineCount, error) {
	counts := map[string]lineCount{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == binDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		pkg, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		c := counts[pkg]
		n := bytes.Count(data, []byte("\n"))
		if strings.HasSuffix(path, "_test.go") {
			c.test += n
		} else {
			c.prod += n
		}
		counts[pkg] = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking sources: %w", err)
	}
	return counts, nil
}
