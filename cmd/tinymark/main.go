// Tinymark is a tiny personal bookmark manager backed by an embedded
// key-value store.
package main

import "github.com/mesh-intelligence/tinymark/internal/cli"

func main() {
	cli.Execute()
}
