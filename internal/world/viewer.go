package world

import (
	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/player"
)

// Viewer is the part of a client that renders the world around its
// player. Clients without it only receive updates about their own player.
type Viewer interface {
	SendAddCreature(c player.Creature, pos geo.Position)
	SendRemoveCreature(c player.Creature, pos geo.Position)
	SendMoveCreature(c player.Creature, from, to geo.Position, teleport bool)
	SendMagicEffect(pos geo.Position, effect player.MagicEffect)
	SendSoundEffect(pos geo.Position, sound player.SoundEffect)
	SendCreatureHealth(c player.Creature)
	SendCreatureSpeed(c player.Creature, speed uint32)
	SendCreatureOutfit(c player.Creature, o player.Outfit)
	SendCreatureLight(c player.Creature, l player.Light)
	SendCreatureWalkthrough(c player.Creature, walkthrough bool)
	SendCloseTrade()
}

type speeder interface{ Speed() uint32 }

type lighter interface{ Light() player.Light }

func viewerOf(p *player.Player) Viewer {
	if p == nil {
		return nil
	}
	v, _ := p.Client().(Viewer)
	return v
}
