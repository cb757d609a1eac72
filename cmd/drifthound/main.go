package main

import "github.com/DrSkyle/drifthound/cmd/drifthound/commands"

func main() {
	commands.Execute()
}
