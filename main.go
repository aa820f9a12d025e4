package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"yashubustudio/beadplot/internal/app"
)

func main() {
	if err := godotenv.Load(".env"); err == nil {
		log.Println("[INFO] Loaded environment variables from .env file")
	}
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config.json (default: ./config.json)")
	flag.Parse()

	if err := app.Run(configPath); err != nil {
		log.Fatalf("beadplot: %v", err)
	}
}
