// Command tmg29 bridges a Thrustmaster racing wheel to host software as a
// Logitech G29 Driving Force wheel.
package main

import (
	"fmt"
	"os"

	"github.com/tmg29/tmg29/internal/errs"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a typed core error onto a non-zero process exit code, per
// spec.md §6/§7: any typed error surfaced by the core exits non-zero.
func exitCode(err error) int {
	var e *errs.Error
	if as, ok := err.(*errs.Error); ok {
		e = as
	}
	if e == nil {
		return 1
	}
	return int(e.Kind) + 1
}
