//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the demo with the backend selected in lume.toml.
func (Run) Demo() error {
	fmt.Println("Run demo...")
	if _, err := executeCmd("go", withArgs("run", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the demo headless on the null driver, whatever the config says.
func (Run) Headless() error {
	fmt.Println("Run headless demo...")
	if _, err := executeCmd("go", withArgs("run", ".", "-backend", "null"), withStream()); err != nil {
		return err
	}
	return nil
}
