package main

import "github.com/bgraf/coordextract/cmd"

func main() {
	cmd.Execute()
}
