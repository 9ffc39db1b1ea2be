//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// smokeID is a small, stable entry on the public service.
const smokeID = "P69905"

// Smoke builds the CLI and runs each read operation once against the live
// prediction service. It needs network access.
func Smoke() error {
	mg.Deps(Build)
	bin := binDir + "/" + binName
	for _, args := range [][]string{
		{"predictions", smokeID},
		{"summary", smokeID},
		{"structure", smokeID, "--out", "structures/" + smokeID + ".pdb"},
		{"entity", smokeID, "--format", "yaml"},
	} {
		fmt.Printf("[smoke] foldfetch %v\n", args)
		if err := sh.RunV(bin, args...); err != nil {
			return fmt.Errorf("foldfetch %v: %w", args, err)
		}
	}
	return nil
}

// Serve builds the CLI and starts the HTTP server on :8080.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binDir+"/"+binName, "serve", "--log-level", "info")
}
