/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
)

func serveHomePage(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeAsset(cfg, w, r, "assets/pong/index.html", errs)
	}
}

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: *
Disallow: /ws
Disallow: /qr
Disallow: /state`

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}
