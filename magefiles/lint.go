//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Lint mg.Namespace

// Runs go vet and checks that go.mod is tidy.
func (Lint) Vet() error {
	if _, err := executeCmd("go", withArgs("vet", "./..."), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("mod", "tidy", "-diff")); err != nil {
		return fmt.Errorf("go.mod is not tidy: %w", err)
	}
	return nil
}
