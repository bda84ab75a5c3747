package main

import (
	"context"
	"flag"
	"log"

	"github.com/carelight/claimsbridge/internal/config"
	"github.com/carelight/claimsbridge/internal/server"
)

func main() {

	settings := flag.String("c", "", "path to KEY=VALUE settings file")
	flag.Parse()

	cfg, err := config.Load(*settings)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(context.Background())
}
