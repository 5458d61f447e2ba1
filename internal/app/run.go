package app

import (
	"context"

	"github.com/vk/weft/internal/command"
	"github.com/vk/weft/internal/ctxlog"
)

// Run dispatches one argument vector through the prepared command tree and
// returns the terminal handler's result.
func (a *App) Run(ctx context.Context, argv []string) (any, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "argv", argv)

	res, err := command.Run(ctx, a.tree, a.outW, argv)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("App.Run method finished.")
	return res, nil
}
