package main

import "rig/cmd"

func main() {
	cmd.Execute()
}
