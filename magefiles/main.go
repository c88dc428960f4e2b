//go:build mage

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/pkg/errors"
)

// Check dependent tools are present and the correct version.
func CheckDeps() error {
	checks := []struct {
		name  string
		check func() error
	}{
		{"go", goCheck},
		{"git", gitCheck},
		{"golangci-lint", golangciLintCheck},
	}
	failures := false
	for _, check := range checks {
		fmt.Printf("Checking %s... ", check.name)
		if err := check.check(); err != nil {
			fmt.Printf("FAILED\nReason: %v\n", err)
			failures = true
		} else {
			fmt.Println("PASSED")
		}
	}
	if failures {
		return errors.New("check(s) failed.")
	}
	return nil
}

// Builds sweepctl into ./bin, stamping the build information.
func Build() error {
	mg.Deps(goCheck, makeLocalBin)
	timeTaken := time.Now()
	ldflags, err := buildLdflags()
	if err != nil {
		return err
	}
	if err := goRun("build", "-ldflags", ldflags, "-o", sweepctlBinary(), "./cmd/sweepctl"); err != nil {
		return err
	}
	fmt.Println("Time to build sweepctl:", time.Since(timeTaken))
	return nil
}

// Runs the unit tests with the race detector.
func Tests() error {
	mg.Deps(goCheck)
	timeTaken := time.Now()
	if err := goRun("test", "-race", "-count=1", "./..."); err != nil {
		return err
	}
	fmt.Println("Time to run tests:", time.Since(timeTaken))
	return nil
}

// Prints the jobs of an example sweep over the multilayer entrypoint.
func ExampleSweep() error {
	mg.Deps(Build)
	return sweepctlRun("list", "--entrypoint", "multilayer", "--max-batch-size", "10", "activation=relu,tanh")
}

// Removes build outputs.
func Clean() {
	fmt.Println("Cleaning...")
	for _, path := range []string{LocalBin, "dist"} {
		os.RemoveAll(path)
	}
}
