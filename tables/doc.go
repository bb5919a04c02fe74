// Package tables provides pure.Table backends beyond the in-memory default:
// a go-memdb table and a ristretto hot tier that can sit in front of any table.
package tables
