package main

import "github.com/Bitlatte/labsite/cmd"

func main() {
	cmd.Execute()
}
