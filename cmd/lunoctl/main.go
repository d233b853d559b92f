package main

import "github.com/lunoai/luno/internal/cli"

func main() {
	cli.Execute()
}
