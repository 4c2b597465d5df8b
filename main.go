package main

import "curriculum-sync/cmd"

func main() {
	cmd.Execute()
}
