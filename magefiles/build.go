//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

const binary = "bin/neothauma"

// Binary compiles the demo into bin/neothauma.
func (Build) Binary() error {
	_, err := executeCmd("go", withArgs("build", "-o", binary, "./cmd/neothauma"), withEnv("CGO_ENABLED=1"), withStream())
	return err
}

// Vet runs go vet over every package.
func (Build) Vet() error {
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}
