// relaycli is an interactive terminal client for the relay server.
// It prints every message other clients broadcast and sends each line
// read from stdin. Type "exit" (or close stdin) to quit.
//
// Usage: relaycli --host 127.0.0.1 --port 8080
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/relayworks/ws-relay/internal/client"
)

func main() {
	host := flag.String("host", "127.0.0.1", "relay server host")
	port := flag.Int("port", 8080, "relay server port")
	path := flag.String("path", "/ws", "relay endpoint path")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(*host, strconv.Itoa(*port)),
		Path:   *path,
	}

	cfg := client.DefaultConfig()
	cfg.URL = u.String()

	c := client.New(cfg, logger)
	if err := c.Connect(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to %s: %v\n", u.String(), err)
		os.Exit(1)
	}
	defer c.Close()

	fmt.Printf("connected to %s\n", u.String())

	// Print incoming traffic while the prompt loop owns stdin
	go func() {
		for msg := range c.Messages() {
			fmt.Printf("\nreceived: %s\nenter message: ", msg.Data)
		}

		// Messages closed: the read loop is done. A pending error tells
		// clean close apart from failure.
		select {
		case err := <-c.Errors():
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway) {
				fmt.Println("\nconnection closed by server")
				os.Exit(0)
			}
			fmt.Fprintf(os.Stderr, "\nconnection lost: %v\n", err)
			os.Exit(1)
		default:
			fmt.Println("\nconnection closed")
			os.Exit(0)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("enter message: ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "exit" {
			break
		}
		if line == "" {
			continue
		}
		if err := c.Send([]byte(line)); err != nil {
			fmt.Fprintf(os.Stderr, "send failed: %v\n", err)
			os.Exit(1)
		}
	}
}
