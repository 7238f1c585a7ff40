// Package redis coordinates several bot replicas through Redis: conversation
// locks and duplicate-update suppression.
package redis
