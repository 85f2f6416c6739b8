//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Demo builds and runs the demo scene with neothauma.toml.
func (Run) Demo() error {
	mg.Deps(Build.Binary)
	fmt.Println("Run demo...")
	_, err := executeCmd(binary, withArgs("-config", "neothauma.toml"), withStream())
	return err
}
