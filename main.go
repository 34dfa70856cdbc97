package main

import (
	cmd "github.com/rohmanhakim/robots-parser/internal/cli"
)

func main() {
	cmd.Execute()
}
