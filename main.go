package main

import "github.com/scorelang/scorelang/cmd"

func main() {
	cmd.Execute()
}
