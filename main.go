package main

import "github.com/ranaklabs/ranak/cmd"

func main() {
	cmd.Execute()
}
