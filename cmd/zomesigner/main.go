package main

import (
	"os"

	"github.com/awnumar/memguard"

	"zomesigner/cmd/zomesigner/commands"
)

func main() {
	memguard.CatchInterrupt()
	err := commands.Execute()
	memguard.Purge()
	if err != nil {
		os.Exit(1)
	}
}
