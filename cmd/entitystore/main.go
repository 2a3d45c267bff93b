package main

import "github.com/go-arrower/entitystore/cmd"

func main() {
	cmd.Execute()
}
