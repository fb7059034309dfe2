package main

import (
	"os"

	"github.com/bash0C7/goflying-mpu6886/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
