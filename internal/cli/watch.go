package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/partypop/partypop/internal/model"
)

func newWatchCmd() *cobra.Command {
	var (
		code string
		name string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Join a room and tail its event stream",
		Long: `watch connects to the server's websocket endpoint, joins the given
room under the given display name and prints every event the server sends
until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, _, err := websocket.DefaultDialer.Dial(client.WebsocketURL(), nil)
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer func() { _ = conn.Close() }()

			join, err := json.Marshal(model.JoinRoomPayload{
				Code: model.RoomCode(code),
				Name: name,
			})
			if err != nil {
				return err
			}
			if err := conn.WriteJSON(model.Envelope{
				Type:    model.EventJoinRoom,
				Payload: join,
			}); err != nil {
				return fmt.Errorf("failed to join room: %w", err)
			}

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)

			events := make(chan model.Envelope)
			errCh := make(chan error, 1)
			go func() {
				for {
					var env model.Envelope
					if err := conn.ReadJSON(&env); err != nil {
						errCh <- err
						return
					}
					events <- env
				}
			}()

			out := NewOutput(cfg.Output)
			for {
				select {
				case env := <-events:
					out.PrintEvent(env)
				case err := <-errCh:
					return fmt.Errorf("connection closed: %w", err)
				case <-interrupt:
					_ = conn.WriteMessage(
						websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					)
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Room code to join")
	cmd.Flags().StringVar(&name, "name", "watcher", "Display name to join under")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}
