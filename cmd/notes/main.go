// Package main реализует точку входа службы заметок.
package main

import (
	"os"
)

func main() {
	os.Exit(Execute())
}
