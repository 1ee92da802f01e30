package main

import "macromood/internal/cli"

func main() {
	cli.Execute()
}
