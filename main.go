package main

import "github.com/meshkit/meshdoctor/cmd"

func main() {
	cmd.Execute()
}
