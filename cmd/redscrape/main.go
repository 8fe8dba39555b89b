package main

import "redscrape/internal/cli"

func main() {
	cli.Execute()
}
