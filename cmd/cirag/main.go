package main

import "cirag/internal/cli"

func main() {
	cli.Execute()
}
