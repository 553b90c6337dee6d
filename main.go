package main

import (
	"os"

	"github.com/guildgate/guildgate/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
