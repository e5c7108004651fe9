// Command rdfgraph loads, inspects and converts RDF datasets.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/recalcitrantsupplant/rdflib/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
