package main

import (
	"context"
	"os"
	"os/signal"

	"cray-scenes/internal/commands"
	"cray-scenes/internal/config"
	"cray-scenes/internal/env"
	"cray-scenes/internal/logger"
)

// app is the state shared by every subcommand.
type app struct {
	prefs config.Prefs
	log   *logger.Logger
	reg   *commands.Registry
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := env.Load(".env"); err != nil {
		logger.New("", os.Stderr).Warn(".env: %v", err)
	}
	path := os.Getenv("CRAYSCENE_CONFIG")
	if path == "" {
		path = config.ConfigPath
	}
	prefs, err := config.Load(path)
	if err == nil {
		err = prefs.ApplyEnv()
	}
	a := &app{prefs: prefs, log: logger.New(prefs.LogFile, os.Stderr)}
	if err != nil {
		a.log.Error("%v", err)
		os.Exit(1)
	}

	a.reg = commands.NewRegistry(os.Stderr)
	a.registerGenerators()
	a.registerScene()
	a.registerRender()

	if len(os.Args) < 2 {
		a.reg.Usage()
		os.Exit(2)
	}
	if err := a.reg.Execute(ctx, os.Args[1:]); err != nil {
		a.log.Error("%s: %v", os.Args[1], err)
		os.Exit(1)
	}
}
