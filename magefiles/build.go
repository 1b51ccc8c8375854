//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the desktop demo binary.
func (Build) Desktop() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/lume", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Builds the WebAssembly artifact with the WebGL2 driver.
func (Build) Wasm() error {
	if _, err := executeCmd("go",
		withArgs("build", "-o", "bin/lume.wasm", "."),
		withEnv("GOOS=js", "GOARCH=wasm"),
		withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the whole test suite.
func (Build) Test() error {
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
