package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jochym/nexstar-evo/logging"
	"github.com/jochym/nexstar-evo/motion"
	"github.com/jochym/nexstar-evo/scope"
	"github.com/jochym/nexstar-evo/session"
)

var hostFlag = &cli.StringFlag{
	Name:  "host",
	Usage: "scope bridge host; omit to auto-discover via UDP beacon",
}

var portFlag = &cli.IntFlag{
	Name:  "port",
	Usage: "scope bridge TCP port",
	Value: 2000,
}

var verboseFlag = &cli.BoolFlag{
	Name:  "verbose",
	Usage: "enable development-mode logging",
}

// connection bundles the live session and motion layer a command
// needs, plus the background goroutine driving Session.Run.
type connection struct {
	sess   *session.Session
	motion *motion.Motion
	scope  *scope.Scope
}

func connect(c *cli.Context) (*connection, error) {
	ctx := c.Context

	logger := logging.New()
	if c.Bool(verboseFlag.Name) {
		logger = logging.NewDevelopment()
	}

	host := c.String(hostFlag.Name)
	if host == "" {
		logger.Infow("no host given, searching for scope beacon")
	}

	sc, err := scope.Open(ctx,
		scope.WithHost(host),
		scope.WithPort(c.Int(portFlag.Name)),
		scope.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to scope: %w", err)
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sc.Motion.RunInitSequence(initCtx); err != nil {
		sc.Close()
		return nil, fmt.Errorf("init sequence: %w", err)
	}

	return &connection{sess: sc.Session, motion: sc.Motion, scope: sc}, nil
}

func (c *connection) Close() {
	c.scope.Close()
}
