// Package fuzz provides a go-fuzz corpus entry point for the parser.
package fuzz

import (
	"github.com/verily-lang/verily/parser"
)

// Fuzz feeds data to the parser as file contents and reports 1 when it
// parses without error, 0 otherwise, per the go-fuzz corpus convention.
func Fuzz(data []byte) int {
	if _, err := parser.ParseFile(string(data), "fuzz"); err != nil {
		return 0
	}
	return 1
}
