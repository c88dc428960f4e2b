//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/magefile/mage/sh"
	"github.com/pkg/errors"
)

const buildPackage = "github.com/armadaproject/sweeper/internal/sweepctl/build"

var LocalBin = filepath.Join(os.Getenv("PWD"), "/bin")

func makeLocalBin() error {
	if _, err := os.Stat(LocalBin); os.IsNotExist(err) {
		err = os.MkdirAll(LocalBin, os.ModePerm)
		if err != nil {
			return err
		}
	}
	return nil
}

func binaryWithExt(name string) string {
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("%s.exe", name)
	}
	return name
}

func sweepctlBinary() string {
	return filepath.Join(LocalBin, binaryWithExt("sweepctl"))
}

func sweepctlRun(args ...string) error {
	return sh.RunV(sweepctlBinary(), args...)
}

func gitCheck() error {
	_, err := sh.Output("git", "--version")
	return err
}

// buildLdflags sets the variables of the build package from the state of the git checkout.
func buildLdflags() (string, error) {
	commit, err := sh.Output("git", "rev-parse", "HEAD")
	if err != nil {
		return "", errors.Errorf("error getting git commit: %v", err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		return "", errors.Errorf("error getting release version: %v", err)
	}
	flags := []string{
		fmt.Sprintf("-X %s.ReleaseVersion=%s", buildPackage, strings.TrimSpace(version)),
		fmt.Sprintf("-X %s.GitCommit=%s", buildPackage, strings.TrimSpace(commit)),
		fmt.Sprintf("-X %s.BuildTime=%s", buildPackage, time.Now().UTC().Format(time.RFC3339)),
	}
	return strings.Join(flags, " "), nil
}
