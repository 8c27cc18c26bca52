package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/invopop/jsonschema"
)

var (
	schemaOnce sync.Once
	schemaJSON []byte
	schemaErr  error
)

// protocolSchema describes every wire message. Clients use it to generate
// their own types; the server never validates against it.
func protocolSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	reflect := func(title string, v any) *jsonschema.Schema {
		s := reflector.Reflect(v)
		s.Version = ""
		s.Title = title
		return s
	}

	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Arena Protocol",
		Description: "Messages exchanged over the arena WebSocket. The t field names the event.",
		OneOf: []*jsonschema.Schema{
			reflect("Client message", &ClientMessage{}),
			reflect("Roster (world_state, start_game)", &RosterMsg{}),
			reflect("Join acknowledgement (join_room, join_spectator)", &JoinAckMsg{}),
			reflect("Player event (player_dead, player_disconnected)", &PlayerEventMsg{}),
			reflect("Bubble radius", &BubbleRadiusMsg{}),
			reflect("Signal (room_full, player_win)", &SignalMsg{}),
			reflect("Error", &ErrorMsg{}),
		},
	}
}

// handleSchema serves the protocol schema as indented JSON.
func handleSchema(w http.ResponseWriter, r *http.Request) {
	schemaOnce.Do(func() {
		schemaJSON, schemaErr = json.MarshalIndent(protocolSchema(), "", "  ")
	})
	if schemaErr != nil {
		http.Error(w, schemaErr.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(schemaJSON)
}
