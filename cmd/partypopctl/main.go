package main

import (
	"github.com/partypop/partypop/internal/cli"
)

func main() {
	cli.Execute()
}
