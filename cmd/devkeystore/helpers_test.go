package main

import (
	"time"

	"zomesigner/internal/app"
)

func testConfig(url string) app.Config {
	cfg := app.DefaultConfig()
	cfg.KeystoreURL = url
	cfg.MetricsAddr = ""
	return cfg
}

func waitBriefly() { time.Sleep(10 * time.Millisecond) }
