package main

import "route-publisher/cmd"

func main() {
	cmd.Execute()
}
