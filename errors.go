/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"log"
	"strings"
	"time"
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func logErrors(cfg *Config, errs <-chan error) {
	for err := range errs {
		logf(cfg, "ERROR: %v", err)
	}
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(getFavicon())
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"/\">%s</a></body></html>", body))

	return htmlBody.String()
}
