package main

import "github.com/shopiggo/geoclean/cmd"

func main() {
	cmd.Execute()
}
