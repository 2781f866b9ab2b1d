package main

import "skylaunch/internal/cli"

func main() {
	cli.Execute()
}
