package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"LocalSketch/internal/export"
	"LocalSketch/internal/session"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/mdns"
	"golang.org/x/sync/errgroup"
)

const (
	LinkScheme   = "localsketch://"
	DefaultPort  = 8888
	sharePathWS  = "/ws"
	writeTimeout = 10 * time.Second
)

var errNothingShared = errors.New("nothing has been shared yet")

// ShareMessage is the JSON header sent to websocket receivers before the
// binary payload.
type ShareMessage struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

type ShareOptions struct {
	// Port to listen on. Zero picks a free port.
	Port int
	// Host overrides the address placed in share links.
	Host string
	// Advertise announces the server over mDNS.
	Advertise bool
}

// ShareServer offers the most recently shared drawing to other machines on
// the local network, over plain HTTP and over a websocket. It starts on the
// first Share call and keeps serving the latest payload until Close.
type ShareServer struct {
	opts     ShareOptions
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	file     *export.File
	listener net.Listener
	server   *http.Server
	mdns     *mdns.Server
	cancel   context.CancelFunc
	done     chan error
}

var _ session.Sharer = (*ShareServer)(nil)

func NewShareServer(opts ShareOptions) *ShareServer {
	return &ShareServer{opts: opts}
}

// Share replaces the offered payload and returns the link receivers use.
// It reports session.ErrShareUnsupported when the server cannot listen.
func (s *ShareServer) Share(ctx context.Context, file export.File) (string, error) {
	if err := s.Start(ctx); err != nil {
		return "", errors.Join(err, session.ErrShareUnsupported)
	}

	s.mu.Lock()
	s.file = &file
	s.mu.Unlock()

	return s.Link()
}

// Start binds the listener and begins serving. It is a no-op once running.
func (s *ShareServer) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.opts.Port))
	if err != nil {
		return fmt.Errorf("failed to start share server: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /"+export.FileName, s.handleFile)
	mux.HandleFunc("GET "+sharePathWS, s.handleWebsocket)

	s.listener = listener
	s.server = &http.Server{Handler: mux, ReadHeaderTimeout: writeTimeout}
	port := listener.Addr().(*net.TCPAddr).Port

	slog.Info("Share server listening", slog.Int("port", port))

	if s.opts.Advertise {
		server, errMDNS := advertise(port)
		if errMDNS != nil {
			// Receivers can still use the link directly.
			slog.Warn("mDNS advertisement unavailable", slog.String("error", errMDNS.Error()))
		} else {
			s.mdns = server
		}
	}

	// The server outlives the request that started it.
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	s.cancel, s.done = cancel, done

	go func(server *http.Server) {
		done <- s.run(runCtx, server, listener)
	}(s.server)

	return nil
}

func (s *ShareServer) run(ctx context.Context, server *http.Server, listener net.Listener) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// Addr returns the bound listener address, or nil before Start.
func (s *ShareServer) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return nil
	}

	return s.listener.Addr()
}

// Link builds the localsketch:// link for the running server.
func (s *ShareServer) Link() (string, error) {
	addr := s.Addr()
	if addr == nil {
		return "", errors.New("share server is not running")
	}

	host := s.opts.Host
	if host == "" {
		ip, err := GetOutgoingIP()
		if err != nil {
			return "", err
		}
		host = ip
	}

	port := strconv.Itoa(addr.(*net.TCPAddr).Port)

	return LinkScheme + net.JoinHostPort(host, port), nil
}

func (s *ShareServer) current() (export.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.file == nil {
		return export.File{}, errNothingShared
	}

	return *s.file, nil
}

func (s *ShareServer) handleFile(w http.ResponseWriter, _ *http.Request) {
	file, err := s.current()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)

		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))

	if _, errWrite := w.Write(file.Data); errWrite != nil {
		slog.Error("Error sending shared drawing", slog.String("error", errWrite.Error()))
	}
}

func (s *ShareServer) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	file, err := s.current()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)

		return
	}

	conn, errUpgrade := s.upgrader.Upgrade(w, r, nil)
	if errUpgrade != nil {
		slog.Error("Websocket upgrade failed", slog.String("error", errUpgrade.Error()))

		return
	}
	defer conn.Close()

	addr := conn.RemoteAddr().String()
	slog.Info("Sending shared drawing", slog.String("addr", addr), slog.String("name", file.Name))

	if errSend := sendFile(conn, file); errSend != nil {
		slog.Error("Error sending shared drawing", slog.String("addr", addr),
			slog.String("error", errSend.Error()))
	}
}

func sendFile(conn *websocket.Conn, file export.File) error {
	header, err := json.Marshal(ShareMessage{
		Type:        "file",
		Name:        file.Name,
		ContentType: file.ContentType,
		Size:        len(file.Data),
	})
	if err != nil {
		return err
	}

	deadline := time.Now().Add(writeTimeout)
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return err
	}

	if err := conn.WriteMessage(websocket.TextMessage, header); err != nil {
		return err
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, file.Data); err != nil {
		return err
	}

	return conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
}

// Close stops the HTTP server and the mDNS announcement.
func (s *ShareServer) Close() error {
	s.mu.Lock()
	cancel, done, server := s.cancel, s.done, s.mdns
	s.cancel, s.done, s.mdns, s.listener = nil, nil, nil, nil
	s.mu.Unlock()

	var errs []error
	if server != nil {
		errs = append(errs, server.Shutdown())
	}

	if cancel != nil {
		cancel()
		errs = append(errs, <-done)
	}

	return errors.Join(errs...)
}
