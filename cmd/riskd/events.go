package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/riskboard/internal/events"
)

var eventsCmd = &cobra.Command{
	Use:     "events",
	Short:   "Tail dashboard and export events from NATS",
	GroupID: "views",
	Args:    cobra.NoArgs,
	// Connects to NATS instead of the API server.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		natsURL, _ := cmd.Flags().GetString("nats")
		if natsURL == "" {
			natsURL = os.Getenv("RISK_NATS_URL")
		}
		if natsURL == "" {
			r, ok, err := selectedRemote(remoteName)
			if err != nil {
				return err
			}
			if ok {
				natsURL = r.NATSURL
			}
		}
		if natsURL == "" {
			return fmt.Errorf("no NATS URL: pass --nats, set RISK_NATS_URL or configure one on the remote")
		}

		sub, err := events.NewNATSSubscriber(natsURL,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				if err != nil {
					fmt.Fprintf(os.Stderr, "disconnected from NATS: %v\n", err)
				}
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				fmt.Fprintln(os.Stderr, "reconnected to NATS")
			}),
		)
		if err != nil {
			return err
		}
		defer sub.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return tailEvents(ctx, sub, topic, cmd.OutOrStdout(), jsonOutput)
	},
}

// tailEvents prints every message on topic until ctx is done or the
// subscription closes.
func tailEvents(ctx context.Context, sub events.Subscriber, topic string, w io.Writer, asJSON bool) error {
	ch, cancel, err := sub.Subscribe(topic)
	if err != nil {
		return err
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if asJSON {
				fmt.Fprintf(w, "%s\n", msg.Data)
				continue
			}
			fmt.Fprintf(w, "%s  %-24s %s\n", time.Now().Format("15:04:05"), msg.Topic, msg.Data)
		}
	}
}

func init() {
	eventsCmd.Flags().String("topic", events.TopicAll, "NATS subject to follow (wildcards allowed)")
	eventsCmd.Flags().String("nats", "", "NATS URL (default $RISK_NATS_URL or the remote's nats_url)")
}
