// Package avdtp implements the signaling side of the Audio/Video
// Distribution Transport Protocol.
//
// A Peer wraps a message oriented channel to a remote device, usually an
// L2CAP channel on PSM 0x0019. Commands are sent with the Peer's methods and
// matched to their responses by transaction label; commands from the remote
// are read from the Peer's RequestStream and answered through the responder
// each request carries.
//
//	p, err := avdtp.NewPeer(conn)
//	...
//	eps, err := p.Discover(ctx)
//	...
//	rs := p.TakeRequestStream()
//	for {
//		req, err := rs.Next(ctx)
//		if err != nil {
//			break
//		}
//		switch r := req.(type) {
//		case *avdtp.DiscoverRequest:
//			r.Responder.Send(local)
//		...
//		}
//	}
package avdtp
