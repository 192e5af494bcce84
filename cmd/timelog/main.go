// Package main provides the timelog CLI.
package main

import "github.com/mesh-intelligence/timelog/internal/cli"

func main() {
	cli.Execute()
}
