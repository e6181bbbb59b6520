package main

import "github.com/emirkaya/vaultpad/cmd/vaultpad/cmd"

func main() {
	cmd.Execute()
}
