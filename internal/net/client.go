package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"LocalSketch/internal/export"
	"github.com/gorilla/websocket"
)

var (
	ErrInvalidLink = errors.New("invalid share link")
	errReceive     = errors.New("failed to receive shared drawing")
)

// ParseLink extracts host:port from a localsketch:// link. A bare host:port
// is accepted as well.
func ParseLink(link string) (string, error) {
	address := strings.TrimPrefix(link, LinkScheme)
	address = strings.TrimSuffix(address, "/")

	if _, _, err := net.SplitHostPort(address); err != nil {
		return "", errors.Join(err, ErrInvalidLink)
	}

	return address, nil
}

// Receive downloads the drawing currently offered by the share server at
// address over its websocket endpoint.
func Receive(ctx context.Context, address string) (export.File, error) {
	url := fmt.Sprintf("ws://%s%s", address, sharePathWS)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return export.File{}, errors.Join(err, errReceive)
	}
	defer conn.Close()

	var header ShareMessage
	if errHeader := conn.ReadJSON(&header); errHeader != nil {
		return export.File{}, errors.Join(errHeader, errReceive)
	}

	kind, data, errData := conn.ReadMessage()
	if errData != nil {
		return export.File{}, errors.Join(errData, errReceive)
	}

	if kind != websocket.BinaryMessage || len(data) != header.Size {
		return export.File{}, errors.Join(
			fmt.Errorf("unexpected payload: type %d, %d of %d bytes", kind, len(data), header.Size),
			errReceive)
	}

	return export.File{Name: header.Name, ContentType: header.ContentType, Data: data}, nil
}
