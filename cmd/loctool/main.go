package main

import "loctool/internal/cli"

func main() {
	cli.Execute()
}
