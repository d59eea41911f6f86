// Package main provides the entrypoint for lambda-http-server.
package main

import (
	"os"

	"github.com/isometry/lambda-http-server/cmd"
	_ "github.com/isometry/lambda-http-server/internal/functions"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
