package main

import "github.com/cinescope/hrdash/cmd/hrdashctl/cli"

func main() {
	cli.Execute()
}
