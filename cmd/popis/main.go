package main

import "github.com/erazemk/popis/internal/cli"

func main() {
	cli.Execute()
}
