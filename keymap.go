package main

import (
	"strings"

	"github.com/Seednode/pongbox/games/pong"
)

// Player 1 (near, bottom) uses A/D, player 2 (far, top) uses the arrows.
var keyActions = map[string]pong.Action{
	"a":          pong.NearLeft,
	"keya":       pong.NearLeft,
	"d":          pong.NearRight,
	"keyd":       pong.NearRight,
	"arrowleft":  pong.FarLeft,
	"left":       pong.FarLeft,
	"arrowright": pong.FarRight,
	"right":      pong.FarRight,
}

// Legacy KeyboardEvent.keyCode values, for browsers that send no key name.
var codeActions = map[int]pong.Action{
	65: pong.NearLeft,
	68: pong.NearRight,
	37: pong.FarLeft,
	39: pong.FarRight,
}

func resolveKey(key string, code int) pong.Action {
	if key != "" {
		if action, ok := keyActions[strings.ToLower(key)]; ok {
			return action
		}
	}

	if action, ok := codeActions[code]; ok {
		return action
	}

	return pong.None
}
