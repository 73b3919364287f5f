// =============================================================================
// Cookie Audit
// =============================================================================
//
// Reconciles cookie-sale platform exports against the troop's internal
// transaction records. See cmd/ for the individual commands.
//
// =============================================================================

package main

import "github.com/troop1303/cookie-audit/cmd"

func main() {
	cmd.Execute()
}
