package main

import (
	"github.com/PAPAMICA/wallix-ssh/internal/cli"
)

func main() {
	cli.Execute()
}
