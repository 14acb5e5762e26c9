package main

import (
	"context"
	"log"

	"github.com/dkalnina/notedrop/internal/cli"
	"github.com/dkalnina/notedrop/internal/config"
	"github.com/dkalnina/notedrop/internal/logging"
)

func main() {

	cfg := config.LoadConfig()

	app, err := cli.NewApp(context.Background(), cfg, logging.NewDefault())
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(context.Background())

}
