package main

import "github.com/kavinsood/tanuki/internal/cli"

func main() {
	cli.Execute()
}
