package main

import "docpipe/internal/cli"

func main() {
	cli.Execute()
}
