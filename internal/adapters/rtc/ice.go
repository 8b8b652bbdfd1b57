// Package rtc hands clients the ICE servers they need to negotiate a direct
// peer connection. Media never passes through the server.
package rtc

import (
	"fmt"

	"github.com/dkeye/peerview/internal/config"
	"github.com/pion/stun/v3"
	"github.com/pion/webrtc/v4"
)

var defaultICEServers = []webrtc.ICEServer{
	{URLs: []string{"stun:stun.l.google.com:19302"}},
}

// ICEServers converts configured servers, falling back to a public STUN
// server when none are set.
func ICEServers(in []config.ICEServer) []webrtc.ICEServer {
	if len(in) == 0 {
		out := make([]webrtc.ICEServer, 0, len(defaultICEServers))
		for _, s := range defaultICEServers {
			s.URLs = append([]string(nil), s.URLs...)
			out = append(out, s)
		}
		return out
	}
	out := make([]webrtc.ICEServer, 0, len(in))
	for _, s := range in {
		srv := webrtc.ICEServer{
			URLs:     append([]string(nil), s.URLs...),
			Username: s.Username,
		}
		if s.Credential != "" {
			srv.Credential = s.Credential
			srv.CredentialType = webrtc.ICECredentialTypePassword
		}
		out = append(out, srv)
	}
	return out
}

// Validate rejects server URLs that are not valid stun/turn URIs.
func Validate(servers []webrtc.ICEServer) error {
	for _, s := range servers {
		for _, raw := range s.URLs {
			if _, err := stun.ParseURI(raw); err != nil {
				return fmt.Errorf("ice server %q: %w", raw, err)
			}
		}
	}
	return nil
}
