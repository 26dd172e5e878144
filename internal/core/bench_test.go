package core

import (
	"context"
	"strconv"
	"testing"
)

func benchmarkCodeBroadcast(b *testing.B, recipients int) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, nil)
	go hub.Run(ctx)

	sender := NewClient("sender")
	hub.RegisterClient(sender)
	sender.Commands <- &Command{Kind: CommandJoinRoom, Room: "bench"}

	clients := make([]*Client, 0, recipients)
	for i := range recipients {
		c := NewClient("c" + strconv.Itoa(i))
		hub.RegisterClient(c)
		c.Commands <- &Command{Kind: CommandJoinRoom, Room: "bench"}
		clients = append(clients, c)
	}

	// Drain events for all but the first recipient to avoid channel backpressure.
	target := clients[0]
	for _, c := range clients[1:] {
		go func(cl *Client) {
			for range cl.Events {
			}
		}(c)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		sender.Commands <- &Command{
			Kind: CommandCodeChange,
			Room: "bench",
			Code: "payload",
		}
		<-target.Events
	}
}

func BenchmarkCodeBroadcast_10(b *testing.B)  { benchmarkCodeBroadcast(b, 10) }
func BenchmarkCodeBroadcast_100(b *testing.B) { benchmarkCodeBroadcast(b, 100) }
func BenchmarkCodeBroadcast_500(b *testing.B) { benchmarkCodeBroadcast(b, 500) }
