package main

import "github.com/examdesk/examdesk-core/internal/interface/cli"

func main() {
	cli.Execute()
}
