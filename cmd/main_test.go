package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	service "github.com/okian/pitchside/internal/app"
	"github.com/okian/pitchside/internal/config"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewHTTPServer(t *testing.T) {
	convey.Convey("Given a started service and the default config", t, func() {
		cfg := config.New()
		svc := service.New(service.WithLogger(logger.Nop()), service.WithWorkerCount(1))
		convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
		defer svc.Stop()

		srv := newHTTPServer(cfg, svc)

		convey.Convey("Then the server uses the configured address and timeouts", func() {
			convey.So(srv.Addr, convey.ShouldEqual, ":9080")
			convey.So(srv.ReadTimeout, convey.ShouldEqual, readTimeout)
			convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)
		})

		convey.Convey("Then every route is served", func() {
			for path, want := range map[string]int{
				"/healthz":                   http.StatusOK,
				"/stats":                     http.StatusOK,
				"/spider/p1?pillar=physical": http.StatusOK,
				"/spider/p1?pillar=unknown":  http.StatusBadRequest,
				"/points/p1":                 http.StatusOK,
				"/openapi.yaml":              http.StatusOK,
			} {
				w := httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
				convey.So(w.Code, convey.ShouldEqual, want)
				convey.So(w.Header().Get("X-Request-ID"), convey.ShouldNotBeEmpty)
			}
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a config listening on a free port", t, func() {
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"
		cfg.LogLevel = "verbose"

		convey.Convey("When the context is canceled, run shuts down cleanly", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg, logger.Nop()) }()

			time.Sleep(100 * time.Millisecond)
			cancel()

			select {
			case err := <-done:
				convey.So(err, convey.ShouldBeNil)
			case <-time.After(5 * time.Second):
				t.Fatal("run did not return after cancel")
			}
		})

		convey.Convey("When the config cannot build a service, run fails", func() {
			cfg.Timezone = "Nowhere/Land"
			convey.So(run(context.Background(), cfg, logger.Nop()), convey.ShouldNotBeNil)
		})
	})
}
