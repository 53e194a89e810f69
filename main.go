// Package main is the entry point for the logsift CLI.
package main

import "logsift.dev/pkg/logsift/cmd"

func main() {
	cmd.Execute()
}
