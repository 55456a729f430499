package main

import "github.com/pathsift/pathsift/cmd"

func main() {
	cmd.Run()
}
