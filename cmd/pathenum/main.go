// Command pathenum enumerates the acyclic paths of loop-unrolled control-flow
// graphs of Go and C procedures.
package main

import "os"

var version = "dev"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
