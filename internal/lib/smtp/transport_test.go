package smtp

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/member-gate/internal/config"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

// fakeServer отвечает как SMTP-сервер без STARTTLS.
func fakeServer(t *testing.T) (host, port string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = io.WriteString(conn, "220 localhost ESMTP\r\n")
		buf := make([]byte, 512)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				return
			}
			line := string(buf[:n])
			switch {
			case len(line) >= 4 && (line[:4] == "EHLO" || line[:4] == "HELO"):
				_, _ = io.WriteString(conn, "250-localhost\r\n250 8BITMIME\r\n")
			case len(line) >= 4 && line[:4] == "QUIT":
				_, _ = io.WriteString(conn, "221 bye\r\n")
				return
			default:
				_, _ = io.WriteString(conn, "250 ok\r\n")
			}
		}
	}()

	host, port, err = net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	return host, port
}

func TestTransport_ConnectRequiresStartTLS(t *testing.T) {
	host, port := fakeServer(t)
	tr := NewTransport(config.SMTP{Host: host, Port: port}, newNoopLogger())

	client, err := tr.Connect(context.Background())
	require.Error(t, err)
	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrNoStartTLS)
}

func TestTransport_ConnectDialError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	tr := NewTransport(config.SMTP{Host: host, Port: port}, newNoopLogger())
	_, err = tr.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial")
}

func TestTransport_ConnectCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := NewTransport(config.SMTP{Host: "127.0.0.1", Port: "25"}, newNoopLogger())
	_, err := tr.Connect(ctx)
	require.Error(t, err)
}
