/*
Copyright © 2026 Woodgrain <dev@woodgrain.sh>
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/woodgrain/goban/board"
)

const serveTimeout time.Duration = 10 * time.Second

func securityHeaders(w http.ResponseWriter) {
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'")
}

func newPage(title, body string) string {
	return `<!DOCTYPE html><html lang="en"><head>` +
		`<meta http-equiv="refresh" content="2">` +
		`<style>pre{font-size:18px;line-height:1.2}</style>` +
		fmt.Sprintf("<title>%s</title></head>", html.EscapeString(title)) +
		fmt.Sprintf("<body><pre>%s</pre></body></html>", body)
}

func serveBoard(cfg *Config, session *board.Session, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		grid := session.Board()
		title := fmt.Sprintf("room %s (%s)", session.Room(), session.State())
		page := newPage(title, html.EscapeString(renderBoard(grid)))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(w)
		w.WriteHeader(http.StatusOK)

		written, err := w.Write([]byte(page))
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Board page (%s) to %s in %s",
			humanReadableSize(int64(written)),
			r.RemoteAddr,
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func serveHealthCheck(session *board.Session) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(w)

		if session.State() != board.StateLive {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, "session %s\n", session.State())
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}
}

func serveVersion() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(w)
		w.WriteHeader(http.StatusOK)

		_, _ = w.Write([]byte("goban v" + releaseVersion + "\n"))
	}
}

func registerProfileHandlers(mux *httprouter.Router) {
	mux.Handler("GET", "/pprof/allocs", pprof.Handler("allocs"))
	mux.Handler("GET", "/pprof/block", pprof.Handler("block"))
	mux.Handler("GET", "/pprof/goroutine", pprof.Handler("goroutine"))
	mux.Handler("GET", "/pprof/heap", pprof.Handler("heap"))
	mux.Handler("GET", "/pprof/mutex", pprof.Handler("mutex"))
	mux.Handler("GET", "/pprof/threadcreate", pprof.Handler("threadcreate"))
	mux.HandlerFunc("GET", "/pprof/cmdline", pprof.Cmdline)
	mux.HandlerFunc("GET", "/pprof/profile", pprof.Profile)
	mux.HandlerFunc("GET", "/pprof/symbol", pprof.Symbol)
	mux.HandlerFunc("GET", "/pprof/trace", pprof.Trace)
}

// serveViewer runs a local read-only web view of one room. The page
// consumes the same session API a real frontend would; if the push
// channel drops, the session is reopened on the next request cycle.
func serveViewer(ctx context.Context, cfg *Config, room string) error {
	client := newBoardClient(cfg)

	session := board.NewSession(client, room, board.SessionConfig{
		Layout: sessionLayout(cfg),
	})
	if err := session.Start(ctx); err != nil {
		return err
	}
	defer session.Close()

	logf(cfg, "START: goban v%s viewer for room %s", releaseVersion, room)

	mux := httprouter.New()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           mux,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       serveTimeout,
		ReadHeaderTimeout: serveTimeout,
		WriteTimeout:      serveTimeout,
	}

	errs := make(chan error, 64)

	mux.GET("/", serveBoard(cfg, session, errs))
	mux.GET("/healthz", serveHealthCheck(session))
	mux.GET("/version", serveVersion())

	if cfg.profile {
		registerProfileHandlers(mux)
	}

	go func() {
		logf(cfg, "SERVE: Listening on http://%s/", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("%s | ERROR: %v\n", time.Now().Format(logDate), err)
		}
	}()

	go func() {
		for err := range errs {
			logf(cfg, "SERVE: Write error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	return nil
}
