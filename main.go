package main

import "github.com/minsh-dev/minsh/cmd"

func main() {
	cmd.Execute()
}
