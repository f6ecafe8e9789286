// Command pom checks page maps against a live Perspective session.
package main

import "github.com/devicelab-dev/perspective-pom/pkg/cli"

func main() {
	cli.Execute()
}
