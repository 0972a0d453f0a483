package main

import "github.com/flurry-cfd/flurry/cmd"

func main() {
	cmd.Execute()
}
