package main

import "github.com/darmiel/fedmap/cmd"

func main() {
	cmd.Execute()
}
