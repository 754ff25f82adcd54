package main

import (
	"log"

	"github.com/ferrost/laminar/app"
)

func main() {
	application, err := app.New() // loads .env automatically
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer application.Shutdown()

	if err := application.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
