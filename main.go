package main

import (
	"context"
	"fmt"
	"os"

	"gridsheet/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "gridsheet: %v\n", err)
		os.Exit(1)
	}
}
