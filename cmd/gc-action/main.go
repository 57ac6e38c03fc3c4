package main

import "github.com/oshokin/game-controller/cmd/gc-action/cmd"

func main() {
	cmd.Execute()
}
