/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"embed"
	"net/http"
	"path"

	"github.com/julienschmidt/httprouter"
)

//go:embed favicons/*
var favicons embed.FS

func getFavicon() string {
	return `<link rel="icon" type="image/svg+xml" href="favicons/favicon.svg">
	<link rel="manifest" href="favicons/site.webmanifest">
	<meta name="theme-color" content="#111111">`
}

func serveFavicons(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		fname := path.Join("favicons", path.Clean("/"+p.ByName("favicon")))

		data, err := favicons.ReadFile(fname)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		switch path.Ext(fname) {
		case ".svg":
			w.Header().Set("Content-Type", "image/svg+xml")
		case ".webmanifest":
			w.Header().Set("Content-Type", "application/manifest+json")
		}
		securityHeaders(cfg, w)

		_, err = w.Write(data)
		if err != nil {
			errs <- err

			return
		}
	}
}
