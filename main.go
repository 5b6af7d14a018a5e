package main

import "feira/cmd"

func main() {
	cmd.Execute()
}
