package main

import "shireesh.com/framegen/cmd"

func main() {
	cmd.Execute()
}
