//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binLint = "golangci-lint"

// Vet runs go vet.
func Vet() error {
	return sh.RunV(binGo, "vet", "./...")
}

// Lint runs go vet, then golangci-lint, then checks that go.mod is tidy.
func Lint() error {
	mg.Deps(Vet)
	if err := sh.RunV(binLint, "run", "./..."); err != nil {
		return err
	}
	return tidyCheck()
}

// tidyCheck fails when go mod tidy would change go.mod or go.sum.
func tidyCheck() error {
	if err := sh.RunV(binGo, "mod", "tidy", "-diff"); err != nil {
		return fmt.Errorf("go.mod is not tidy: %w", err)
	}
	return nil
}
