package main

import "github.com/pivotmarket/pivot-client/cmd"

func main() {
	cmd.Execute()
}
