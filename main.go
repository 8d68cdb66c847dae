package main

import "github.com/Tiliavir/hamster-cli/cmd"

func main() {
	cmd.Execute()
}
