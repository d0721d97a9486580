package main

import "github.com/theirongolddev/wishjar/cmd"

func main() {
	cmd.Execute()
}
