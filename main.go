package main

import "golestoon/cmd"

func main() {
	cmd.Execute()
}
