package main

import "github.com/synheart/synheart-hrv/internal/cli"

func main() {
	cli.Execute()
}
