// Package http exposes the bot over HTTP: a Telegram webhook acting as an
// update source, plus health, info and Prometheus metrics endpoints.
package http
