package main

import (
	"fmt"
	"os"

	"github.com/quackscript/quack/cmd"
)

func main() {
	cfg, err := cmd.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(64)
	}

	app := cmd.NewApp(cfg)
	os.Exit(app.Main())
}
