package main

import "github.com/papergraph/papergraph/cmd"

func main() {
	cmd.Execute()
}
