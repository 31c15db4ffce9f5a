package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"ghostbridge/cmd"
)

func main() {
	// A .env file is optional; configuration falls back to defaults
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
