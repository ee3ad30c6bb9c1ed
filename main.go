package main

import "github.com/frahmantamala/campus-complaints/cmd"

func main() {
	cmd.Execute()
}
