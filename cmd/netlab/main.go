package main

import "github.com/zkan/netlab/cmd/netlab/cmd"

func main() {
	cmd.Execute()
}
