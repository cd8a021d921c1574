// Package main implements the command-line interface for the shipit tool.
// It resolves a CI version string into container tags and a Helm chart
// version, then drives a sequenced publish of a container image and its
// chart(s) to an OCI registry.
//
// The main command is:
//   - publish: build/push the image, package/push the chart(s), optionally
//     make the packages public and push repository changes
package main

import (
	"os"

	"github.com/lucas-albers-lz4/shipit/pkg/exitcodes"
	"github.com/lucas-albers-lz4/shipit/pkg/log"
)

func main() {
	if err := Execute(); err != nil {
		if code, ok := exitcodes.IsExitCodeError(err); ok {
			log.Error("Run failed", "error", err.Error())
			os.Exit(code)
		}
		log.Error("Run failed", "error", err.Error())
		os.Exit(exitcodes.ExitGeneralRuntimeError)
	}
}
