package handlers

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/mattn/go-isatty"
)

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// configureLog drops timestamps for terminals and keeps full ones when the
// output is captured.
func configureLog(interactive bool) {
	if interactive {
		log.SetFlags(log.Ltime)
		return
	}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}

// newLogger returns a logr.Logger that writes through the standard logger.
// Verbose enables per-attempt output from the waiter.
func newLogger(verbose bool) logr.Logger {
	verbosity := 0
	if verbose {
		verbosity = 1
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			log.Printf("%s: %s", prefix, args)
			return
		}
		log.Print(args)
	}, funcr.Options{Verbosity: verbosity})
}
