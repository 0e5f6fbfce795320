package main

import (
	"os"

	"github.com/google/logger"
)

func main() {
	defer logger.Init("ptsctl", false, false, os.Stderr).Close()
	if rootCmd.Execute() != nil {
		os.Exit(1)
	}
}
