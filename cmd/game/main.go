package main

import "github.com/pefman/arena-duel/cmd/game/cmd"

func main() {
	cmd.Execute()
}
