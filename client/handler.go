package client

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/clientkit/contract"
	"github.com/kbukum/clientkit/dispatch"
	"github.com/kbukum/clientkit/errors"
	"github.com/kbukum/clientkit/logger"
	"github.com/kbukum/clientkit/transport"
)

// newMethodHandler builds the handler executing one parsed method
// against the bound target. Everything is captured at build time; the
// handler never touches the capability scope.
func newMethodHandler(a *Assembled, target dispatch.Target, tr transport.Transport, md *contract.Metadata) dispatch.Handler {
	return dispatch.HandlerFunc(func(ctx context.Context, args []any) (any, error) {
		req, err := buildRequest(a, target, md, args)
		if err != nil {
			return nil, errors.Invocation(target.Name, md.Method.Key(), err)
		}

		for _, ic := range a.Interceptors {
			if err := ic.Apply(ctx, req); err != nil {
				return nil, errors.Invocation(target.Name, md.Method.Key(), err)
			}
		}

		logRequest(a, req)

		start := time.Now()
		var resp *transport.Response
		err = a.Retryer.Do(ctx, func() error {
			r, rerr := tr.RoundTrip(ctx, req, a.Options)
			if rerr != nil {
				return rerr
			}
			resp = r
			return nil
		})
		if err != nil {
			if a.Propagation == PropagateUnwrap {
				return nil, err
			}
			return nil, errors.Invocation(target.Name, md.Method.Key(), err)
		}

		logResponse(a, req, resp, time.Since(start))

		if !resp.IsSuccess() && !(resp.StatusCode == 404 && a.Decode404) {
			return nil, a.ErrorDecoder.Decode(md.Method.Key(), resp)
		}

		if md.NewResult == nil {
			return nil, nil
		}
		out := md.NewResult()
		body := resp
		if resp.StatusCode == 404 && a.Decode404 {
			body = &transport.Response{StatusCode: resp.StatusCode, Header: resp.Header}
		}
		if err := a.Decoder.Decode(body, out); err != nil {
			return nil, errors.Invocation(target.Name, md.Method.Key(), err)
		}
		return out, nil
	})
}

// buildRequest expands the path template and applies parameter bindings
// and the body encoding.
func buildRequest(a *Assembled, target dispatch.Target, md *contract.Metadata, args []any) (*transport.Request, error) {
	path, err := md.ExpandPath(args)
	if err != nil {
		return nil, err
	}

	req := transport.NewRequest(md.Verb, target.URL+path)

	for name, vals := range md.Headers {
		for _, v := range vals {
			req.Header.Add(name, v)
		}
	}
	for name, idx := range md.HeaderParams {
		if idx < len(args) && args[idx] != nil {
			req.Header.Set(name, fmt.Sprintf("%v", args[idx]))
		}
	}
	for name, idx := range md.QueryParams {
		if idx < len(args) && args[idx] != nil {
			req.Query.Set(name, fmt.Sprintf("%v", args[idx]))
		}
	}
	if md.QueryMapIndex >= 0 && md.QueryMapIndex < len(args) {
		vals, err := a.QueryEncoder.Encode(args[md.QueryMapIndex])
		if err != nil {
			return nil, err
		}
		for k, vs := range vals {
			for _, v := range vs {
				req.Query.Add(k, v)
			}
		}
	}
	if md.BodyIndex >= 0 && md.BodyIndex < len(args) {
		body, contentType, err := a.Encoder.Encode(args[md.BodyIndex])
		if err != nil {
			return nil, err
		}
		req.Body = body
		if contentType != "" && req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", contentType)
		}
	}
	return req, nil
}

func logRequest(a *Assembled, req *transport.Request) {
	if a.LogLevel == logger.RequestLevelNone {
		return
	}
	fields := logger.Fields(logger.FieldMethod, req.Method, logger.FieldTarget, req.URL)
	if a.LogLevel >= logger.RequestLevelHeaders {
		fields["headers"] = req.Header
	}
	if a.LogLevel >= logger.RequestLevelFull && len(req.Body) > 0 {
		fields["body"] = string(req.Body)
	}
	a.Log.Debug("request", fields)
}

func logResponse(a *Assembled, req *transport.Request, resp *transport.Response, elapsed time.Duration) {
	if a.LogLevel == logger.RequestLevelNone {
		return
	}
	fields := logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldTarget, req.URL,
		logger.FieldStatus, resp.StatusCode,
		logger.FieldDuration, elapsed.Milliseconds(),
	)
	if a.LogLevel >= logger.RequestLevelHeaders {
		fields["headers"] = resp.Header
	}
	if a.LogLevel >= logger.RequestLevelFull && len(resp.Body) > 0 {
		fields["body"] = string(resp.Body)
	}
	a.Log.Debug("response", fields)
}
