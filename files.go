/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"embed"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
)

//go:embed assets/*
var assets embed.FS

var contentTypes = map[string]string{
	".css":  "text/css; charset=utf-8",
	".html": "text/html; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".svg":  "image/svg+xml",
}

func humanReadableSize(bytes int64) string {
	const unit int64 = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := unit, 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB",
		float64(bytes)/float64(div),
		"kMGTPE"[exp])
}

func writeAsset(cfg *Config, w http.ResponseWriter, r *http.Request, fname string, errs chan<- error) {
	startTime := time.Now()

	data, err := assets.ReadFile(fname)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if ct, ok := contentTypes[strings.ToLower(path.Ext(fname))]; ok {
		w.Header().Set("Content-Type", ct)
	}
	securityHeaders(cfg, w)

	written, err := w.Write(data)
	if err != nil {
		errs <- err

		return
	}

	logf(cfg, "SERVE: %s (%s) to %s in %s",
		fname,
		humanReadableSize(int64(written)),
		realIP(r),
		time.Since(startTime).Round(time.Microsecond),
	)
}

func serveAssets(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		fname := path.Join("assets", path.Clean("/"+p.ByName("asset")))

		writeAsset(cfg, w, r, fname, errs)
	}
}
