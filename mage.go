//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	serverBin = "./bin/scoreboard"
)

const (
	toolsDir     = "tools/"
	toolsModfile = toolsDir + "go.mod"
	toolsBinDir  = toolsDir + "bin/"
	lintTool     = toolsBinDir + "golangci-lint"
)

func goModDownload() error {
	return sh.Run("go", "mod", "download")
}

// Build builds the scoreboard binary
func Build() error {
	mg.Deps(goModDownload)
	return sh.Run("go", "build", "-o", serverBin, "cmd/main.go")
}

// Run starts the scoreboard
func Run() error {
	mg.Deps(Build)
	return sh.Run(serverBin)
}

func Lint() error {
	mg.Deps(buildLintTool)
	return sh.Run(lintTool, "run", "./...")
}

func buildLintTool() error {
	return sh.Run(
		"go", "build",
		"-modfile", toolsModfile,
		"-o", lintTool,
		"github.com/golangci/golangci-lint/cmd/golangci-lint",
	)
}

// Test runs the unit tests
func Test() error {
	return sh.Run("go", "test", "./...")
}
