package main

import (
	"os"
)

func main() {
	if err := newRootCmd(&rootOptions{}).Execute(); err != nil {
		os.Exit(1)
	}
}
