package main

import "imgresize/cmd"

func main() {
	cmd.Execute()
}
