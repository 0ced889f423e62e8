package main

import "github.com/Tiliavir/trivial-todo/cmd"

func main() {
	cmd.Execute()
}
