package main

import "github.com/poornesh-v09/Milk-Management/cmd"

func main() {
	cmd.Execute()
}
