package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/factoryplanner-go/internal/application/common"
	"github.com/andrescamacho/factoryplanner-go/internal/application/mediator"
)

// PrometheusMiddleware records duration and outcome of every mediator command
// and logs failures through the context logger. A nil collector only logs.
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		commandName := CommandName(request)
		if collector != nil {
			collector.Started(commandName)
		}

		start := time.Now()
		response, err := next(ctx, request)
		elapsed := time.Since(start)

		if collector != nil {
			collector.Finished(commandName, elapsed.Seconds(), err)
		}
		if err != nil {
			common.LoggerFromContext(ctx).Log("ERROR", "command failed", map[string]interface{}{
				"command":  commandName,
				"duration": elapsed.String(),
				"error":    err.Error(),
			})
		}
		return response, err
	}
}

// CommandName turns "*commands.SolvePageCommand" into "SolvePageCommand"
func CommandName(request mediator.Request) string {
	if request == nil {
		return "UnknownCommand"
	}
	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		return fullName[i+1:]
	}
	return fullName
}
