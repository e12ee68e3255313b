package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// argError marks a failure as CLI argument validation, mapping to exit
// code 2. Any other error maps to exit code 1 (I/O/network).
type argError struct{ err error }

func (e argError) Error() string { return e.err.Error() }
func (e argError) Unwrap() error { return e.err }

func newArgError(format string, args ...any) error {
	return argError{err: fmt.Errorf(format, args...)}
}

func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var ae argError
	if errors.As(err, &ae) {
		return 2
	}
	return 1
}

func newRootCmd() *cobra.Command {
	var baseURL string
	var timeoutSeconds float64

	root := &cobra.Command{
		Use:           "dad",
		Short:         "Animica data-availability CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "url", envOr("DA_URL", "http://127.0.0.1:8648"), "DA service base URL")
	root.PersistentFlags().Float64Var(&timeoutSeconds, "timeout", 30, "HTTP timeout in seconds")

	root.AddCommand(newPutBlobCmd(&baseURL, &timeoutSeconds))
	root.AddCommand(newGetBlobCmd(&baseURL, &timeoutSeconds))
	root.AddCommand(newInspectRootCmd())
	root.AddCommand(newServeCmd())
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
