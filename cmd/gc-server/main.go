package main

import "github.com/oshokin/game-controller/cmd/gc-server/cmd"

func main() {
	cmd.Execute()
}
