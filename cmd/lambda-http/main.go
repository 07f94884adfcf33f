// Command lambda-http serves the finance API behind an API Gateway HTTP API.
package main

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/getsentry/sentry-go"

	"finance-backend/internal/bootstrap"
	"finance-backend/internal/shared/config"
	"finance-backend/internal/shared/telemetry"
)

var (
	once    sync.Once
	proxy   *ginadapter.GinLambdaV2
	initErr error
)

func setup() {
	cfg := config.Load()
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, Environment: cfg.Env}); err != nil {
			telemetry.Warn("lambda.sentry.init_failed", map[string]any{"error": err.Error()})
		}
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		sentry.CaptureException(err)
		return
	}
	proxy = ginadapter.NewV2(app.Router)
}

func handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	once.Do(setup)
	if initErr != nil || proxy == nil {
		fields := map[string]any{"path": req.RawPath}
		if initErr != nil {
			fields["error"] = initErr.Error()
		}
		telemetry.Error("lambda.http.unavailable", fields)
		return events.APIGatewayV2HTTPResponse{
			StatusCode: 503,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":{"code":"internal_error","message":"service unavailable"}}`,
		}, nil
	}
	return proxy.ProxyWithContext(ctx, req)
}

func main() {
	lambda.Start(handle)
}
