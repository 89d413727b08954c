package main

import "github.com/mbolis/quick-brief/cmd"

func main() {
	cmd.Execute()
}
