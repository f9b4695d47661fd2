package main

import "labscope/cmd"

func main() {
	cmd.Execute()
}
