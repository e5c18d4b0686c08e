// Command tradesctl is the operator tool for the trades platform. It works
// directly against the configured MongoDB store.
package main

import "os"

func main() {
	if err := newRootCmd(wireApp).Execute(); err != nil {
		os.Exit(1)
	}
}
