package main

import "github.com/Mohsinsiddi/w3forms/cmd"

func main() {
	cmd.Execute()
}
