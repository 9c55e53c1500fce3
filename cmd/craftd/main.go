package main

import "github.com/craftly/craftd/internal/cli"

func main() {
	cli.Execute()
}
