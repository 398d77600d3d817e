// Command ash is the build tool entry point.
package main

import "github.com/ash-lang/ashc/cmd"

func main() {
	cmd.Execute()
}
