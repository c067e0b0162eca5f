package main

import (
	"os"

	"github.com/wonny/graham/cmd/graham/commands"
)

// main is the entry point for the graham CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/graham [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
