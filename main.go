package main

import "github.com/felo/mailintel/cmd"

func main() {
	cmd.Execute()
}
