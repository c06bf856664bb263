package main

import (
	"embed"

	"github.com/Pritam-72/Aptex-Wallet-sub001/cmd"
)

//go:embed migrations
var migrationsFS embed.FS

func main() {
	cmd.Execute(migrationsFS)
}
