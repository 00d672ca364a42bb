package types

// Client -> Server (over /ws?code=XXXXXX)
// StartGame: {}
//
// Move:
//   player_id: string
//   direction: "up" | "down" | "left" | "right"
//
// EndTurn:
//   player_id: string
//
// StartCombat:
//   attacker_id: string
//   defender_id: string
//
// EndCombat:
//   winner_id: string (empty = no winner / fled)
//
// LeaveGame:
//   player_id: string

// Server -> Client
// StateSnapshot (sent once on join):
//   version: number
//   state:
//     phase: "waiting" | "turn_active" | "turn_transition" | "game_over"
//     width, height: number
//     players: [{id, pos:{x,y}, points, allowance, team?, in_game}]
//     turn_order: string[]
//     active_player_id: string
//     turn_number: number
//     combat_active: boolean
//   remaining_seconds: number // derived from the turn clock, not a second source of truth
//
// Event:
//   version: number
//   event:
//     type: "player.moved" | "player.reachableTiles" | "turn.started"
//         | "turn.changed" | "turn.gameOver"
//         | "combat.started" | "combat.ended" | "combat.roundReset"
//     ... flat payload fields per type, e.g.
//     player.moved:          player_id, x, y, remaining_points
//     player.reachableTiles: player_id, tiles: [{x, y, cost, remaining}]
//     turn.changed:          active_player_id, turn_number
//     turn.gameOver:         winner_id (empty = none)
//
// Error:
//   error: string
