// Command lambda wraps the same dispatcher and router as cmd/api behind an
// AWS Lambda handler, for teams that want to run the emulator as a shared
// dev/test endpoint behind API Gateway instead of a long-lived process.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"ddblocal/interfaces/http/rest"
	"ddblocal/internal/dispatcher"
	"ddblocal/pkg/config"
	"ddblocal/pkg/observability"
)

var chiLambda *chiadapter.ChiLambdaV2

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	if _, err := observability.NewTracerProvider(context.Background(), "ddblocal-lambda", cfg.OTLPEndpoint); err != nil {
		log.Fatalf("failed to build tracer provider: %v", err)
	}

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	srv := dispatcher.New(logger, observability.Tracer(), metrics)
	handler := rest.NewRouter(srv, logger)

	router, ok := handler.(*chi.Mux)
	if !ok {
		log.Fatal("router is not a *chi.Mux, cannot adapt for Lambda")
	}
	chiLambda = chiadapter.NewV2(router)
}

// Handler adapts one API Gateway HTTP API v2 request onto the chi router.
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return chiLambda.ProxyWithContextV2(ctx, req)
}

func main() {
	lambda.Start(Handler)
}
