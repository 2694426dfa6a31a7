package main

import "github.com/devicelab-dev/authflow-runner/pkg/cli"

func main() {
	cli.Execute()
}
