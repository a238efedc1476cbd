package main

import "github.com/storacha/sequence-tester/cmd"

func main() {
	cmd.Execute()
}
