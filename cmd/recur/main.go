// Command recur prints values of a memoized recurrence.
//
//	recur [flags] [n ...]
//
// With no indices on the command line, whitespace separated indices are read
// from stdin. A single index prints the bare value; several print one
// "name(n) = value" line each.
//
// Exit status is 0 on success, 1 when evaluation or configuration fails and 2
// on invalid input.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
