package main

import (
	"os"

	"github.com/kajilog/kajilog/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
