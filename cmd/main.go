package main

import (
	"os"

	"github.com/soundprediction/ontograph/cmd/ontograph"
)

func main() {
	if err := ontograph.Execute(); err != nil {
		os.Exit(1)
	}
}
