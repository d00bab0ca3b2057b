package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"steganography/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("stego failed")
		os.Exit(1)
	}
}
