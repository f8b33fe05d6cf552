//go:build headless

package main

import (
	"context"
	"errors"
	"io"
)

var errNoAudio = errors.New("audio playback not available in headless builds")

type ringPlayer struct{}

func newRingPlayer(int, int) (*ringPlayer, error) { return nil, errNoAudio }

func (*ringPlayer) Writer(context.Context) io.Writer { return io.Discard }
func (*ringPlayer) Start()                           {}
func (*ringPlayer) Finish()                          {}
func (*ringPlayer) Drained() bool                    { return true }
func (*ringPlayer) SilentBytes() uint64              { return 0 }
func (*ringPlayer) Close() error                     { return nil }
