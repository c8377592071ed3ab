// Package observability bootstraps OpenTelemetry tracing and metrics
// over OTLP HTTP. Generated clients pick the global providers up
// automatically: the dispatcher records call metrics and the tracing
// interceptor propagates span context on outbound requests.
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("orders-gateway"))
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("orders-gateway"))
//	defer mp.Shutdown(ctx)
package observability
