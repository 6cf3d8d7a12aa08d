package main

import (
	"log"

	"github.com/missionmap/tileserver/internal/app"
	"github.com/missionmap/tileserver/pkg/config"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalln("failed to load config: ", err)
	}

	app.Run(cfg)
}
