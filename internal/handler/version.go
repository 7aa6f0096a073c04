package handler

import (
	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/net"
	"github.com/l1jgo/playerd/internal/net/packet"
)

// HandleVersion processes CVersion. A client speaking another protocol
// version is told so and disconnected.
func HandleVersion(sess *net.Session, r *packet.Reader, deps *Deps) {
	version := r.ReadH()
	if version != packet.ProtocolVersion {
		deps.Log.Info("client version rejected",
			zap.Uint64("session", sess.ID),
			zap.Uint16("version", version))
		loginError(sess, "Only clients with protocol 13.10 allowed!")
		return
	}
	sess.SetState(packet.StateVersionOK)
}

func loginError(sess *net.Session, msg string) {
	w := packet.NewWriterWithOpcode(packet.SLoginError)
	w.WriteS(msg)
	sess.Send(w.Bytes())
	sess.CloseAfterFlush()
}
