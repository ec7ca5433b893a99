// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"sync"

	"github.com/holiman/uint256"
)

// termOutput is shared by a terminal handler and every handler derived from it
// through WithAttrs, so records never interleave on the writer.
type termOutput struct {
	mu  sync.Mutex
	wr  io.Writer
	buf []byte
	// widest value per key seen so far, for column alignment
	fieldPadding map[string]int
}

// TerminalHandler renders records for a human on a terminal:
//
//	INFO [05-16|20:58:45.000] slashed  pkg=dpos validator=0xf077b491b355e64048ce21e3a6fc4751eeea77fa amount=5000000000000000000
type TerminalHandler struct {
	out      *termOutput
	lvl      *slog.LevelVar
	useColor bool
	attrs    []slog.Attr
}

// NewTerminalHandlerWithLevel returns a terminal handler dropping records below lvl.
// lvl may be changed at runtime, e.g. by the admin API.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar, useColor bool) *TerminalHandler {
	return &TerminalHandler{
		out:      &termOutput{wr: wr, fieldPadding: make(map[string]int)},
		lvl:      lvl,
		useColor: useColor,
	}
}

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	buf := h.format(h.out.buf, r, h.useColor)
	_, err := h.out.wr.Write(buf)
	h.out.buf = buf[:0]
	return err
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl.Level()
}

// WithGroup is a no-op: terminal output is flat.
func (h *TerminalHandler) WithGroup(string) slog.Handler { return h }

func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TerminalHandler{
		out:      h.out,
		lvl:      h.lvl,
		useColor: h.useColor,
		attrs:    append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
	}
}

// JSONHandler prints every record as a JSON line.
func JSONHandler(wr io.Writer) slog.Handler {
	var level slog.LevelVar
	level.Set(levelMaxVerbosity)
	return JSONHandlerWithLevel(wr, &level)
}

// JSONHandlerWithLevel prints records at or above level as JSON lines.
func JSONHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: replaceJSONAttr,
		Level:       level,
	})
}

// replaceJSONAttr shortens the time and level keys and renders amounts and
// hex types as strings, so a 10^24 stake does not turn into a float.
func replaceJSONAttr(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		return slog.Attr{Key: "t", Value: attr.Value}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.String("lvl", LevelString(l))
		}
	}

	switch v := attr.Value.Any().(type) {
	case *big.Int:
		attr.Value = slog.StringValue(nilOr(v == nil, v.String))
	case *uint256.Int:
		attr.Value = slog.StringValue(nilOr(v == nil, v.Dec))
	case fmt.Stringer:
		isNil := v == nil || (reflect.ValueOf(v).Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil())
		attr.Value = slog.StringValue(nilOr(isNil, v.String))
	}
	return attr
}

func nilOr(isNil bool, str func() string) string {
	if isNil {
		return "<nil>"
	}
	return str()
}
