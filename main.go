package main

import "github.com/davidag/xtimetracker/commands"

func main() {
	commands.Execute()
}
