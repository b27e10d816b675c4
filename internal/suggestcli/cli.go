package suggestcli

import (
	"io"
)

// Usage is printed by --help ahead of the flag defaults.
const Usage = `fplhelper suggest
=================

Ranks like-for-like transfers for a squad using a running fplhelper service.

Usage:
  suggest [options]

Examples:
  # Suggestions for a public FPL entry in the current gameweek
  suggest --entry 123456

  # Suggestions for a squad given by catalog ids, as CSV
  suggest --squad 1,2,3,4,5 --format csv

  # A squad file with full player records and no budget or club limits
  suggest --squad-file squad.json --unconstrained --top 10

Options:
`

// ShowHelp writes the usage header followed by the flag defaults.
func ShowHelp(w io.Writer, flagDefaults string) {
	_, _ = io.WriteString(w, Usage)
	_, _ = io.WriteString(w, flagDefaults)
}
