package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/rezz/cmd/rezzctl/commands"
)

func main() {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Overload()

	if err := commands.NewRootCmd(commands.OpenService).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
