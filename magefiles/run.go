//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds the binary and loads every model under the asset directory.
func (Run) Assets() error {
	mg.Deps(Build.Binary)
	fmt.Println("Loading assets...")
	if _, err := executeCmd("bin/anima", withArgs("-config", "anima.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Builds the binary and loads a single model file.
func (Run) Model(path string) error {
	mg.Deps(Build.Binary)
	if _, err := executeCmd("bin/anima", withArgs(path), withStream()); err != nil {
		return err
	}
	return nil
}
