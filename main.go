package main

import "github.com/avzakharova/studio-bot/cmd"

func main() {
	cmd.Execute()
}
