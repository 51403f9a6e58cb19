package main

import "github.com/kingpinzs/mimic3/cmd"

func main() {
	cmd.Execute()
}
