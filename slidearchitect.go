package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/slidearchitect/cmd"
	"github.com/slidearchitect/internal/apperr"
)

const (
	version = "0.1.0"
)

func main() {
	err := cmd.NewApp(version).Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}

// errorLine renders err for the terminal, naming the kind once
func errorLine(err error) string {
	var e *apperr.Error
	if !errors.As(err, &e) {
		return fmt.Sprintf("Error: %s", err)
	}
	if e.Details != "" {
		return fmt.Sprintf("Error [%s]: %s: %s", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("Error [%s]: %s", e.Kind, e.Message)
}
