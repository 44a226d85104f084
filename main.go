package main

import (
	"fmt"
	"os"

	"github.com/stevefranchak/bitbucket-repo-puller/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the bitbucket-repo-puller command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
