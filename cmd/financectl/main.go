package main

import (
	"github.com/JonMunkholm/conciliacao/internal/cli"
	_ "github.com/JonMunkholm/conciliacao/internal/core/tables" // Register all tables
)

func main() {
	cli.Execute()
}
