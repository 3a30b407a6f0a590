package main

import "github.com/gaurav-prasanna/clip2md/cmd"

func main() {
	cmd.Execute()
}
