package main

import (
	"log"
	"os"
)

// Default values for flags - used when commands run outside the CLI (tests)
var defaultVerbose = false

// Package-level var for the verbose flag; it only affects logging.
var verbose = &defaultVerbose

func main() {
	if err := RunCLI(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
