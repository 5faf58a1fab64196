package main

import (
	"github.com/appforge/skelgen/pkg/cli"
)

func main() {
	cli.Execute()
}
