package main

import "github.com/timvw/tmux-jump/cmd"

func main() {
	cmd.Execute()
}
