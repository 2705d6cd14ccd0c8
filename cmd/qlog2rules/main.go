// Package main provides the qlog2rules command.
//
// qlog2rules reads DNS filtering-service query logs (one JSON record per
// line) and emits a sorted block list of "||domain^" rules for every query
// that a user filtering rule blocked.
//
// Usage:
//
//	qlog2rules querylog.json
//	qlog2rules -o rules/blocked.txt querylog.json querylog.json.1
//
// See --help for all available options.
package main

func main() {
	Execute()
}
