package main

import "github.com/nibble-vm/nibble/cmd"

func main() {
	cmd.Execute()
}
