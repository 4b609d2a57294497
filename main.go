package main

import "github.com/justicelink/case-management/cmd"

func main() {
	cmd.Execute()
}
