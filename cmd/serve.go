// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Thermoquad/cancrc/pkg/crc15"
	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
)

var (
	serveCBOR     bool
	serveLogLevel string
	serveLogJSON  bool
)

// CBOR reply map keys
const (
	replyKeyCRC   = 0
	replyKeyBytes = 1
	replyKeyError = 2
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer CRC requests arriving on a serial port or WebSocket",
	Long: `Read bit strings from the connection, one per line, and reply with their CRC.

Each request is parsed the same way as the calc command (spaces ignored,
at most 96 bits, 8 bits per byte). Replies are one line each:

  71EE          CRC of the request
  ERR <reason>  request rejected

With --cbor, each reply is instead a CBOR map: {0: crc, 1: byte_count} on
success or {2: "reason"} on error. Over WebSocket, replies are sent as
binary messages in this mode.

The command exits when the peer closes the connection.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveCBOR, "cbor", false, "Reply with CBOR maps instead of text lines")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveLogJSON, "log-json", false, "Write logs as JSON")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr, serveLogLevel, serveLogJSON)
	if err != nil {
		return err
	}

	conn, connInfo, err := OpenConnection(serveCBOR)
	if err != nil {
		return err
	}
	defer conn.Close()

	logger.Info("serving CRC requests", "connection", connInfo, "cbor", serveCBOR)

	r, err := newResponder(crc15.New(), logger, serveCBOR)
	if err != nil {
		return err
	}
	return r.serve(conn)
}

// newLogger builds a slog logger writing to w at the named level
func newLogger(w io.Writer, level string, asJSON bool) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// responder answers line requests with CRC replies
type responder struct {
	engine *crc15.Engine
	logger *slog.Logger
	cbor   bool
	enc    cbor.EncMode

	requests int
	failures int
}

func newResponder(engine *crc15.Engine, logger *slog.Logger, useCBOR bool) (*responder, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}
	return &responder{
		engine: engine,
		logger: logger,
		cbor:   useCBOR,
		enc:    enc,
	}, nil
}

// serve handles requests until the connection reports EOF
func (r *responder) serve(rw io.ReadWriter) error {
	scanner := bufio.NewScanner(rw)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		reply, err := r.handle(line)
		if err != nil {
			return err
		}
		if _, err := rw.Write(reply); err != nil {
			return fmt.Errorf("failed to write reply: %w", err)
		}
	}

	err := scanner.Err()
	if err == nil || errors.Is(err, ErrConnectionClosed) {
		r.logger.Info("connection closed", "requests", r.requests, "failures", r.failures)
		return nil
	}
	return fmt.Errorf("read error: %w", err)
}

// handle computes the reply for one request line
func (r *responder) handle(line string) ([]byte, error) {
	r.requests++

	data, err := crc15.ParseBitString(line)
	if err != nil {
		r.failures++
		r.logger.Warn("rejected request", "input", line, "error", err)
		return r.errorReply(err)
	}

	crc := r.engine.Calculate(data)
	r.logger.Debug("computed CRC", "bytes", len(data), "crc", crc15.FormatCRC(crc))

	if r.cbor {
		return r.enc.Marshal(map[int]interface{}{
			replyKeyCRC:   crc,
			replyKeyBytes: len(data),
		})
	}
	return []byte(crc15.FormatCRC(crc) + "\n"), nil
}

func (r *responder) errorReply(err error) ([]byte, error) {
	if r.cbor {
		return r.enc.Marshal(map[int]interface{}{
			replyKeyError: err.Error(),
		})
	}
	return []byte("ERR " + err.Error() + "\n"), nil
}
