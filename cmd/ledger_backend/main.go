// Command ledger_backend runs the microlending ledger API and its
// operational tasks (migrations, chart seeding, dev tokens).
package main

import (
	"log/slog"
	"os"
)

// @title Microlend Ledger API
// @version 1.0
// @description Double-entry bookkeeping for the microlending portal.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line and returns the process exit code. Errors are
// logged on the default logger, which is the configured one once config loads.
func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		slog.Error("ledger_backend failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}
