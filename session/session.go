// Package session is the optional convenience wrapper that drives a
// decoder.Decoder off an io.Reader-shaped transport: it owns the growing
// receive buffer, enforces Config.ReceiveBufferBytes, and compacts consumed
// bytes between frames. The transport itself (sockets, framing, retries) is
// out of scope — the caller supplies any io.Reader.
//
// This is the one package in the module that logs anything. Gio's own core
// packages (op, internal/ops, gpu) never import "log"; it shows up only in
// app/, the OS/windowing shell around gio's core. session plays the same
// shell role here, so it is the only place a *log.Logger is threaded
// through, exactly the way app/log_windows.go reaches for the stdlib
// package directly rather than an abstraction over it.
package session

import (
	"errors"
	"io"
	"log"

	"github.com/modelingevolution/blazor-blaze-sub001/config"
	"github.com/modelingevolution/blazor-blaze-sub001/decoder"
	"github.com/modelingevolution/blazor-blaze-sub001/protoerr"
	"github.com/modelingevolution/blazor-blaze-sub001/stage"
)

const readChunkBytes = 32 * 1024

// Session drives a Decoder over a transport, one Read at a time.
type Session struct {
	cfg config.Config
	dec *decoder.Decoder
	buf []byte
	log *log.Logger
}

// Option configures a Session under construction.
type Option func(*Session)

// WithLogger attaches a logger; decoded frames and fatal errors are
// reported through it. Nil (the default) disables logging entirely.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.log = l }
}

// New builds a Session decoding onto st under cfg's tunables.
func New(cfg config.Config, st *stage.Stage, opts ...Option) *Session {
	s := &Session{cfg: cfg, dec: decoder.New(cfg, st)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run reads from r until it returns io.EOF or a fatal error, decoding and
// replaying every complete frame it accumulates. A malformed frame
// (anything but protoerr.ErrNeedMoreData) is fatal to the session and
// returned to the caller; io.EOF after a clean frame boundary is not an
// error.
func (s *Session) Run(r io.Reader) error {
	chunk := make([]byte, readChunkBytes)
	for {
		n, readErr := r.Read(chunk)
		if n > 0 {
			s.buf = append(s.buf, chunk[:n]...)
			if len(s.buf) > s.cfg.ReceiveBufferBytes {
				return protoerr.New(protoerr.KindResourceExhausted,
					"receive buffer exceeded %d bytes", s.cfg.ReceiveBufferBytes)
			}
			if err := s.drain(); err != nil {
				return err
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return nil
			}
			return readErr
		}
	}
}

// drain decodes as many complete frames as s.buf currently holds, compacting
// consumed bytes after each, and stops cleanly once the decoder reports
// ErrNeedMoreData.
func (s *Session) drain() error {
	for {
		res, err := s.dec.Decode(s.buf)
		if errors.Is(err, protoerr.ErrNeedMoreData) {
			return nil
		}
		if err != nil {
			if s.log != nil {
				s.log.Printf("session: fatal decode error: %v", err)
			}
			return err
		}
		s.buf = append(s.buf[:0], s.buf[res.Consumed:]...)
		if s.log != nil {
			s.log.Printf("session: decoded frame %d (%d layers)", res.FrameID, res.LayerCount)
		}
	}
}
