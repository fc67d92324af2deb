package di

import (
	"fmt"
	"time"

	"page-pilot/internal/application/port/input"
	"page-pilot/internal/application/port/output"
	rodinfra "page-pilot/internal/infrastructure/browser/rod"
	"page-pilot/internal/infrastructure/channel"
	"page-pilot/internal/infrastructure/env"
	"page-pilot/internal/infrastructure/inspect"
	"page-pilot/internal/infrastructure/logger"
	"page-pilot/internal/usecase/actor"
	"page-pilot/internal/usecase/session"
)

type Container struct {
	Logger  output.LoggerPort
	Browser *rodinfra.Browser
	Pipe    *channel.Pipe
	Actor   *actor.Actor
	Inspect *inspect.Server
	Session input.SessionDriver
}

type Config struct {
	SessionName     string
	Headless        bool
	SlowMotion      time.Duration
	InspectAddr     string
	ActorConfig     actor.Config
	ChannelCapacity int
}

func ConfigFromEnv(envs *env.Service) Config {
	actorCfg := actor.DefaultConfig()
	actorCfg.StabilityCeiling = envs.GetDuration("STABILITY_CEILING", actorCfg.StabilityCeiling)

	return Config{
		SessionName:     envs.GetDefault("SESSION_NAME", "session"),
		Headless:        envs.GetBool("BROWSER_HEADLESS", false),
		SlowMotion:      envs.GetDuration("BROWSER_SLOW_MOTION", 0),
		InspectAddr:     envs.GetDefault("INSPECT_ADDR", "127.0.0.1:8632"),
		ActorConfig:     actorCfg,
		ChannelCapacity: envs.GetInt("CHANNEL_CAPACITY", 16),
	}
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.New(cfg.SessionName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	browserCfg := rodinfra.DefaultBrowserConfig()
	browserCfg.Headless = cfg.Headless
	browserCfg.SlowMotion = cfg.SlowMotion
	browser, err := rodinfra.Launch(browserCfg, log)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	pipe := channel.NewPipe(cfg.ChannelCapacity)
	act := actor.New(browser.Top(), browser.Monitor(), browser.Input(), pipe, log, cfg.ActorConfig)
	inspector := inspect.NewServer(browser, log)
	driver := session.New(act, pipe, browser, inspector, log)

	return &Container{
		Logger:  log,
		Browser: browser,
		Pipe:    pipe,
		Actor:   act,
		Inspect: inspector,
		Session: driver,
	}, nil
}

func (c *Container) Close() {
	if c.Pipe != nil {
		c.Pipe.Close()
	}
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
