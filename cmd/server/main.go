package main

import (
	"fmt"
	"os"

	_ "github.com/quickai/server/cmd/server/docs"
)

func main() {
	Execute()
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
