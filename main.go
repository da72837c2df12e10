package main

import (
	"coursefetch/cmd"
)

func main() {
	cmd.Execute()
}
