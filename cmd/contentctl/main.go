package main

import (
	"os"

	"github.com/dalemusser/wavesite/internal/app/contentctl"
)

func main() {
	if err := contentctl.Execute(); err != nil {
		os.Exit(1)
	}
}
