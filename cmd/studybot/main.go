package main

import "github.com/academykit/studybot/cli"

func main() {
	cli.Execute()
}
