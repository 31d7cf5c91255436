package main

import "github.com/mfauzirh/workforce-management/cmd"

func main() {
	cmd.Execute()
}
