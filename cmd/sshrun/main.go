package main

import (
	"os"

	"github.com/yoanbernabeu/sshrun/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
