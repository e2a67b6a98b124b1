package main

import "schedulectl/cmd"

func main() {
	cmd.Execute()
}
