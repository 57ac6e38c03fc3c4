package main

import "github.com/oshokin/game-controller/cmd/gc-watch/cmd"

func main() {
	cmd.Execute()
}
