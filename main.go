package main

import "github.com/kamusis/socsel/cmd"

func main() {
	cmd.Execute()
}
