package main

import "natsumin/cmd"

func main() {
	cmd.Execute()
}
