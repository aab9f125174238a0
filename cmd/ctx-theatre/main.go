// Command ctx-theatre syncs and browses CTX Live Theatre productions.
package main

import "github.com/gordoncheme/ctx-theatre-browser/internal/cli"

func main() {
	cli.Execute()
}
