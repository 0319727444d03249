package main

import "github.com/ComedicChimera/shiftreduce/src/cmd"

func main() {
	cmd.Execute()
}
