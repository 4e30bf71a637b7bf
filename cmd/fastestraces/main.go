package main

import "github.com/fastestraces/fastestraces/internal/cli"

func main() {
	cli.Execute()
}
