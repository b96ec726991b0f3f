package main

import (
	"context"

	"erp/internal/cli"
)

func main() {
	cli.Execute(context.Background())
}
