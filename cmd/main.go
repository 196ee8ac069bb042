package main

import cmd "github.com/kerbaras/dualbook/cmd/dualbook"

func main() {
	cmd.Execute()
}
