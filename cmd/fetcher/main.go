package main

import (
	"os"

	"ecbrates/internal/app"
)

func main() {
	if err := app.RunFetch(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
