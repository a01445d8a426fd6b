package main

import "github.com/tabulr/timetabler/internal/cli"

func main() {
	cli.Execute()
}
