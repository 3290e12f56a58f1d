package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/ralphloop/ralph/internal/config"
	"github.com/ralphloop/ralph/internal/store"
)

var (
	red   = color.New(color.FgRed).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	gray  = color.New(color.FgHiBlack).SprintFunc()
)

func loadConfig() config.Config {
	path := os.Getenv("RALPH_CONFIG_FILE")
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s loading config: %v\n", red("✗"), err)
		os.Exit(1)
	}
	return cfg
}

func openStore() *store.Store {
	cfg := loadConfig()
	s, err := store.New(cfg.StoreRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s opening project store at %s: %v\n", red("✗"), cfg.StoreRoot, err)
		os.Exit(1)
	}
	return s
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", red("✗"), fmt.Sprintf(format, args...))
	os.Exit(1)
}
